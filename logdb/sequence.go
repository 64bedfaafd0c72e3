// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "math"

const (
	indexBits = 20
	opBits    = 63 - indexBits

	// MaxOp is the largest operation number a sequence can carry.
	MaxOp = uint64(1)<<opBits - 1
	// MaxIndex is the largest record index within one operation.
	MaxIndex = uint32(1)<<indexBits - 1
)

// sequence orders records by the committed operation that produced them and
// their index within it. It stays positive so sqlite stores it as an int64 key.
type sequence int64

func newSequence(op uint64, index uint32) (sequence, bool) {
	if op > MaxOp || index > MaxIndex {
		return 0, false
	}
	return sequence(op<<indexBits | uint64(index)), true
}

func (s sequence) Op() uint64 {
	return uint64(s) >> indexBits
}

func (s sequence) Index() uint32 {
	return uint32(uint64(s) & uint64(MaxIndex))
}

// opBounds returns the inclusive sequence range covering ops [from, to].
func opBounds(from, to uint64) (sequence, sequence) {
	lo := sequence(math.MaxInt64)
	if from <= MaxOp {
		lo, _ = newSequence(from, 0)
	}
	hi := sequence(math.MaxInt64)
	if to <= MaxOp {
		hi, _ = newSequence(to, MaxIndex)
	}
	return lo, hi
}
