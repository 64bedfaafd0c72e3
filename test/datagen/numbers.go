// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64N(n uint64) uint64 {
	return mathrand.Uint64N(n) //#nosec G404
}

// RandAmount returns a random amount in [1, max].
func RandAmount(max uint64) *uint256.Int {
	return uint256.NewInt(1 + mathrand.Uint64N(max)) //#nosec G404
}

// SplitAmount splits total into n random parts that add up to total exactly.
func SplitAmount(total uint64, n int) []*uint256.Int {
	parts := make([]*uint256.Int, n)
	remaining := total
	for i := range n - 1 {
		var p uint64
		if remaining > 0 {
			p = mathrand.Uint64N(remaining + 1) //#nosec G404
		}
		parts[i] = uint256.NewInt(p)
		remaining -= p
	}
	if n > 0 {
		parts[n-1] = uint256.NewInt(remaining)
	}
	return parts
}
