// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/thor"
)

func (s *Staking) onlyAdmin(caller thor.Address) error {
	if caller != s.admin {
		return reverts.Newf(reverts.Unauthorized, "caller %s is not the administrator", caller)
	}
	return nil
}

// StartRewardClock starts the fixed reward window at now. It can only run once.
func (s *Staking) StartRewardClock(caller thor.Address, now uint64) (uint64, error) {
	if err := s.onlyAdmin(caller); err != nil {
		return 0, err
	}
	start, err := s.pools.RewardStartTime()
	if err != nil {
		return 0, err
	}
	if start != 0 {
		return 0, reverts.New(reverts.Policy, "reward clock already started")
	}
	// zero marks an unstarted clock
	if now == 0 {
		return 0, reverts.New(reverts.Input, "reward clock cannot start at time zero")
	}
	end, err := safemath.AddUint64(now, s.lifetime)
	if err != nil {
		return 0, reverts.Newf(reverts.Input, "reward window starting at %d overflows", now)
	}
	s.pools.StartRewardClock(now)

	ev := newEvent(EventRewardClockStarted, caller, nil)
	s.emit(ev)
	logger.Info("reward clock started", "start", now, "end", end)
	return now, nil
}

// DepositFixedReward funds the fixed reserve from the administrator and returns the new reserve.
func (s *Staking) DepositFixedReward(caller thor.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := s.onlyAdmin(caller); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := s.pull(caller, amount); err != nil {
		return nil, err
	}
	if err := s.pools.DepositFixed(amount); err != nil {
		return nil, err
	}
	available, err := s.pools.FixedRewardsAvailable()
	if err != nil {
		return nil, err
	}

	s.emit(newEvent(EventFixedRewardDeposited, caller, amount))
	logger.Debug("fixed reward deposited", "amount", amount, "available", available)
	return available, nil
}

// WithdrawFixedReward returns the part of the fixed reserve not covered by the obligation,
// once the reward window has expired. The reserve is left equal to the obligation.
func (s *Staking) WithdrawFixedReward(caller thor.Address, now uint64) (*uint256.Int, error) {
	if err := s.onlyAdmin(caller); err != nil {
		return nil, err
	}
	sched, err := s.schedule()
	if err != nil {
		return nil, err
	}
	if !sched.Expired(now) {
		return nil, reverts.New(reverts.Policy, "reward window not expired")
	}

	available, err := s.pools.FixedRewardsAvailable()
	if err != nil {
		return nil, err
	}
	obligation, err := s.pools.FixedObligation()
	if err != nil {
		return nil, err
	}
	if available.Lt(obligation) {
		return nil, reverts.Newf(reverts.Funding, "fixed reserve %s below obligation %s", available.Dec(), obligation.Dec())
	}
	withdrawable, err := safemath.Sub(available, obligation)
	if err != nil {
		return nil, err
	}

	if err := s.pools.SetFixedAvailable(obligation); err != nil {
		return nil, err
	}
	if !withdrawable.IsZero() {
		if err := s.push(caller, withdrawable); err != nil {
			return nil, err
		}
	}

	s.emit(newEvent(EventFixedRewardWithdrawn, caller, withdrawable))
	logger.Info("fixed reward withdrawn", "amount", withdrawable, "remaining", obligation)
	return withdrawable, nil
}

// DepositDynamicReward funds the dynamic pool from the administrator. Deposits accumulate.
func (s *Staking) DepositDynamicReward(caller thor.Address, amount *uint256.Int) error {
	if err := s.onlyAdmin(caller); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := s.pull(caller, amount); err != nil {
		return err
	}
	if err := s.pools.DepositDynamic(amount); err != nil {
		return err
	}

	s.emit(newEvent(EventDynamicRewardDeposited, caller, amount))
	logger.Debug("dynamic reward deposited", "amount", amount)
	return nil
}

// AllocateDynamicReward credits amounts[i] to addresses[i] out of the dynamic pool.
// The batch is all or nothing: lengths must match, the pool must cover total and the
// amounts must add up to total exactly. No batch identifier is kept, so submitting the
// same batch twice credits every listed account twice.
func (s *Staking) AllocateDynamicReward(caller thor.Address, addresses []thor.Address, amounts []*uint256.Int, total *uint256.Int) error {
	if err := s.onlyAdmin(caller); err != nil {
		return err
	}
	if len(addresses) != len(amounts) {
		return reverts.Newf(reverts.Input, "length mismatch: %d addresses, %d amounts", len(addresses), len(amounts))
	}
	if total == nil || !thor.IsValidAmount(total) {
		return reverts.New(reverts.Input, "invalid total")
	}
	for i, amount := range amounts {
		if amount == nil || !thor.IsValidAmount(amount) {
			return reverts.Newf(reverts.Input, "invalid amount at index %d", i)
		}
		if err := s.notContract(addresses[i]); err != nil {
			return err
		}
	}

	toAllocate, err := s.pools.DynamicToAllocate()
	if err != nil {
		return err
	}
	if toAllocate.Lt(total) {
		return reverts.Newf(reverts.Funding, "insufficient dynamic rewards: to allocate %s, total %s", toAllocate.Dec(), total.Dec())
	}
	sum, err := safemath.Sum(amounts...)
	if err != nil {
		return err
	}
	if !sum.Eq(total) {
		return reverts.Newf(reverts.Input, "amounts sum %s does not match total %s", sum.Dec(), total.Dec())
	}

	for i, addr := range addresses {
		acc, err := s.accounts.Get(addr)
		if err != nil {
			return err
		}
		if acc.UnclaimedDynamic, err = safemath.Add(acc.UnclaimedDynamic, amounts[i]); err != nil {
			return err
		}
		if err := s.accounts.Set(addr, acc); err != nil {
			return err
		}
		s.emit(newEvent(EventDynamicRewardAllocated, addr, amounts[i]))
	}
	if err := s.pools.Allocate(total); err != nil {
		return err
	}

	s.emit(newEvent(EventDynamicAllocationBatch, caller, total))
	logger.Debug("dynamic reward allocated", "accounts", len(addresses), "total", total)
	return nil
}
