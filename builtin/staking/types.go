// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
)

// AccountInfo is the full view of an account as of a given time.
type AccountInfo struct {
	Staked             bool
	StakedAmount       *uint256.Int
	PendingFixed       *uint256.Int // fixed reward a claim at the given time would pay
	PendingDynamic     *uint256.Int
	MaxObligation      *uint256.Int
	LastSettlementTime uint64
	EffectiveClaimTime uint64 // time a claim would accrue up to, zero before the clock starts
}

// Settlement is the outcome of settling an account.
type Settlement struct {
	Fixed   *uint256.Int
	Dynamic *uint256.Int
	From    uint64
	To      uint64
}

// Total returns fixed + dynamic. Both are bounded to 128 bits so the sum cannot overflow.
func (s *Settlement) Total() *uint256.Int {
	return new(uint256.Int).Add(s.Fixed, s.Dynamic)
}

func emptySettlement() *Settlement {
	return &Settlement{Fixed: new(uint256.Int), Dynamic: new(uint256.Int)}
}
