// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/staking/account"
	"github.com/vechain/stakerewards/thor"
)

// Audit checks the ledger wide invariants: the per-account stake, obligation and
// unclaimed dynamic reward each sum to their global counter.
func (s *Staking) Audit() error {
	totals, err := s.pools.Totals()
	if err != nil {
		return err
	}

	var (
		staked     = new(uint256.Int)
		obligation = new(uint256.Int)
		dynamic    = new(uint256.Int)
	)
	err = s.accounts.Iterate(func(_ thor.Address, acc *account.Account) bool {
		staked.Add(staked, acc.StakedAmount)
		obligation.Add(obligation, acc.MaxObligation)
		dynamic.Add(dynamic, acc.UnclaimedDynamic)
		return true
	})
	if err != nil {
		return err
	}

	if !staked.Eq(totals.TotalStaked) {
		return errors.Errorf("sum of stakes %s != total staked %s", staked.Dec(), totals.TotalStaked.Dec())
	}
	if !obligation.Eq(totals.FixedObligation) {
		return errors.Errorf("sum of obligations %s != fixed obligation %s", obligation.Dec(), totals.FixedObligation.Dec())
	}
	if !dynamic.Eq(totals.DynamicAllocated) {
		return errors.Errorf("sum of unclaimed dynamic %s != dynamic allocated %s", dynamic.Dec(), totals.DynamicAllocated.Dec())
	}
	return nil
}
