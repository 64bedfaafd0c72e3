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

func validateAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return reverts.New(reverts.Input, "amount is zero")
	}
	if !thor.IsValidAmount(amount) {
		return reverts.New(reverts.Input, "amount exceeds 128 bits")
	}
	return nil
}

// notContract rejects the contract's own address as a staker or reward recipient.
// Its token balance backs the pools, so moves to or from itself would credit
// counters without any tokens arriving.
func (s *Staking) notContract(addr thor.Address) error {
	if addr == s.addr {
		return reverts.Newf(reverts.Input, "address %s is the staking contract", addr)
	}
	return nil
}

// Stake deposits amount of the caller's tokens. Anything accrued on the previous
// balance is settled first.
func (s *Staking) Stake(caller thor.Address, amount *uint256.Int, now uint64) error {
	if err := s.notContract(caller); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	sched, err := s.schedule()
	if err != nil {
		return err
	}
	if sched.Closed(now) {
		return reverts.New(reverts.Policy, "staking window closed")
	}

	total, err := s.pools.TotalStaked()
	if err != nil {
		return err
	}
	newTotal, err := safemath.Add(total, amount)
	if err != nil {
		return err
	}
	if newTotal.Gt(s.maxStakable) {
		return reverts.Newf(reverts.Policy, "max stakable exceeded: %s > %s", newTotal.Dec(), s.maxStakable.Dec())
	}

	acc, err := s.accounts.Get(caller)
	if err != nil {
		return err
	}
	settlement, err := s.settle(caller, acc, sched, now)
	if err != nil {
		return err
	}
	if !acc.Staked {
		acc.Staked = true
		acc.LastSettlementTime = safemath.Max(acc.LastSettlementTime, now)
	}

	if err := s.pull(caller, amount); err != nil {
		return err
	}
	if acc.StakedAmount, err = safemath.Add(acc.StakedAmount, amount); err != nil {
		return err
	}
	if err := s.pools.AddStake(amount); err != nil {
		return err
	}
	if err := s.recompute(acc, sched, now); err != nil {
		return err
	}
	if err := s.accounts.Set(caller, acc); err != nil {
		return err
	}

	s.emitSettlement(caller, settlement, false)
	s.emit(newEvent(EventStaked, caller, amount))
	logger.Debug("staked", "account", caller, "amount", amount, "total", newTotal)
	return nil
}

// Unstake returns amount of principal to the caller after settling.
func (s *Staking) Unstake(caller thor.Address, amount *uint256.Int, now uint64) error {
	if err := s.notContract(caller); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	acc, err := s.accounts.Get(caller)
	if err != nil {
		return err
	}
	if !acc.HasStake() {
		return reverts.New(reverts.Policy, "no stake")
	}
	if acc.StakedAmount.Lt(amount) {
		return reverts.Newf(reverts.Policy, "unstake %s exceeds stake %s", amount.Dec(), acc.StakedAmount.Dec())
	}

	sched, err := s.schedule()
	if err != nil {
		return err
	}
	settlement, err := s.settle(caller, acc, sched, now)
	if err != nil {
		return err
	}

	if acc.StakedAmount, err = safemath.Sub(acc.StakedAmount, amount); err != nil {
		return err
	}
	if err := s.pools.RemoveStake(amount); err != nil {
		return err
	}
	if err := s.push(caller, amount); err != nil {
		return err
	}
	if err := s.recompute(acc, sched, now); err != nil {
		return err
	}
	if err := s.accounts.Set(caller, acc); err != nil {
		return err
	}

	s.emitSettlement(caller, settlement, false)
	s.emit(newEvent(EventUnstaked, caller, amount))
	logger.Debug("unstaked", "account", caller, "amount", amount)
	return nil
}

// Claim pays out the caller's accrued fixed reward and unclaimed dynamic reward.
func (s *Staking) Claim(caller thor.Address, now uint64) (*Settlement, error) {
	if err := s.notContract(caller); err != nil {
		return nil, err
	}
	sched, err := s.schedule()
	if err != nil {
		return nil, err
	}
	if !sched.Started() {
		return nil, reverts.New(reverts.Policy, "reward clock not started")
	}

	acc, err := s.accounts.Get(caller)
	if err != nil {
		return nil, err
	}
	// an address without a record has nothing to settle and gets no record
	known := !acc.IsEmpty()
	settlement, err := s.settle(caller, acc, sched, now)
	if err != nil {
		return nil, err
	}
	if known {
		if err := s.recompute(acc, sched, now); err != nil {
			return nil, err
		}
		if err := s.accounts.Set(caller, acc); err != nil {
			return nil, err
		}
	}

	s.emitSettlement(caller, settlement, true)
	logger.Debug("claimed", "account", caller, "fixed", settlement.Fixed, "dynamic", settlement.Dynamic)
	return settlement, nil
}

// emitSettlement reports a settlement. Settlements made on the way to a stake change
// are reported only when they paid something.
func (s *Staking) emitSettlement(addr thor.Address, st *Settlement, always bool) {
	if !always && st.Total().IsZero() {
		return
	}
	ev := newEvent(EventRewardClaimed, addr, st.Total())
	ev.Fixed = new(uint256.Int).Set(st.Fixed)
	ev.Dynamic = new(uint256.Int).Set(st.Dynamic)
	s.emit(ev)
}
