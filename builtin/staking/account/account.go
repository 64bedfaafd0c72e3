// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/holiman/uint256"
)

// Account is the per address ledger record.
// It is created lazily, by a first stake or a dynamic allocation, and never deleted.
type Account struct {
	Staked             bool         // set by the first stake, never cleared
	StakedAmount       *uint256.Int // principal currently staked
	UnclaimedDynamic   *uint256.Int // allocated dynamic reward not yet paid out
	MaxObligation      *uint256.Int // share of the remaining fixed liability
	LastSettlementTime uint64       // fixed reward is accrued up to this time
}

func newAccount() *Account {
	return &Account{
		StakedAmount:     new(uint256.Int),
		UnclaimedDynamic: new(uint256.Int),
		MaxObligation:    new(uint256.Int),
	}
}

// IsEmpty returns whether the record was never written.
func (a *Account) IsEmpty() bool {
	return !a.Staked &&
		a.StakedAmount.IsZero() &&
		a.UnclaimedDynamic.IsZero() &&
		a.MaxObligation.IsZero() &&
		a.LastSettlementTime == 0
}

// HasStake returns whether the account currently holds principal.
func (a *Account) HasStake() bool {
	return a.Staked && !a.StakedAmount.IsZero()
}

// normalize replaces nil amounts left by decoding an absent record.
func (a *Account) normalize() *Account {
	if a.StakedAmount == nil {
		a.StakedAmount = new(uint256.Int)
	}
	if a.UnclaimedDynamic == nil {
		a.UnclaimedDynamic = new(uint256.Int)
	}
	if a.MaxObligation == nil {
		a.MaxObligation = new(uint256.Int)
	}
	return a
}

