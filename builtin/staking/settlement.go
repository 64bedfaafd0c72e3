// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	builtinreverts "github.com/vechain/stakerewards/builtin/reverts"
	"github.com/vechain/stakerewards/builtin/staking/account"
	"github.com/vechain/stakerewards/builtin/staking/accrual"
	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/thor"
)

// settle pays out everything accrued by acc since its last settlement.
// It is a no-op before the reward clock starts. The reserves are debited before the
// outgoing transfer; the caller persists acc.
func (s *Staking) settle(addr thor.Address, acc *account.Account, sched accrual.Schedule, now uint64) (*Settlement, error) {
	if !sched.Started() {
		return emptySettlement(), nil
	}

	from, to := sched.Interval(acc.LastSettlementTime, now)
	fixed, err := sched.Reward(acc.StakedAmount, sched.Elapsed(acc.LastSettlementTime, now))
	if err != nil {
		return nil, err
	}
	dynamic := new(uint256.Int).Set(acc.UnclaimedDynamic)

	available, err := s.pools.FixedRewardsAvailable()
	if err != nil {
		return nil, err
	}
	if available.Lt(fixed) {
		return nil, reverts.Newf(reverts.Funding, "insufficient fixed rewards: available %s, owed %s", available.Dec(), fixed.Dec())
	}

	if err := s.pools.PayFixed(fixed); err != nil {
		return nil, err
	}
	if err := s.pools.PayDynamic(dynamic); err != nil {
		return nil, err
	}
	acc.UnclaimedDynamic = new(uint256.Int)
	// a clock behind the last settlement never moves it backwards
	acc.LastSettlementTime = safemath.Max(acc.LastSettlementTime, to)

	settlement := &Settlement{Fixed: fixed, Dynamic: dynamic, From: from, To: to}
	if total := settlement.Total(); !total.IsZero() {
		if err := s.push(addr, total); err != nil {
			return nil, err
		}
	}
	logger.Trace("settled", "account", addr, "from", from, "to", to, "fixed", fixed, "dynamic", dynamic)
	return settlement, nil
}

// recompute refreshes the obligation of acc as of now and folds the change into the total.
func (s *Staking) recompute(acc *account.Account, sched accrual.Schedule, now uint64) error {
	next, err := sched.Reward(acc.StakedAmount, sched.Remaining(now))
	if err != nil {
		return err
	}
	if err := s.pools.AdjustObligation(acc.MaxObligation, next); err != nil {
		return err
	}
	acc.MaxObligation = next
	return nil
}

// pull moves amount from a caller into the contract.
func (s *Staking) pull(from thor.Address, amount *uint256.Int) error {
	if err := s.token.Transfer(from, s.addr, amount); err != nil {
		if builtinreverts.IsRequireErr(err) {
			return reverts.Newf(reverts.Policy, "transfer from %s failed: %v", from, err)
		}
		return errors.WithMessage(err, "transfer in")
	}
	return nil
}

// push moves amount from the contract to a recipient.
func (s *Staking) push(to thor.Address, amount *uint256.Int) error {
	if err := s.token.Transfer(s.addr, to, amount); err != nil {
		if builtinreverts.IsRequireErr(err) {
			return reverts.Newf(reverts.Funding, "transfer to %s failed: %v", to, err)
		}
		return errors.WithMessage(err, "transfer out")
	}
	return nil
}
