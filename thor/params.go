// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"github.com/holiman/uint256"
)

// Constants of the reward schedule.
const (
	// BasisPoints is the denominator of fixed APR values.
	BasisPoints uint64 = 10000

	// DefaultRewardLifetime is the duration of the reward window in seconds.
	DefaultRewardLifetime uint64 = 365 * 24 * 60 * 60

	// MaxRewardLifetime bounds the configurable window so its end never overflows a timestamp.
	MaxRewardLifetime uint64 = 100 * DefaultRewardLifetime

	// DefaultFixedAPR is the default annual rate of the fixed stream, in basis points.
	DefaultFixedAPR uint64 = 500

	// MaxFixedAPR caps the configurable rate (10000%).
	MaxFixedAPR uint64 = 100 * BasisPoints

	// AmountBits is the width of every caller supplied or stored token amount.
	AmountBits = 128
)

// MaxAmount is the largest representable token amount (2^128 - 1).
var MaxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), AmountBits), uint256.NewInt(1))

// IsValidAmount reports whether v fits in the amount width.
func IsValidAmount(v *uint256.Int) bool {
	return v != nil && v.BitLen() <= AmountBits
}
