// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/thor"
)

var (
	slotRewardStartTime   = thor.BytesToBytes32([]byte(("reward-start-time")))
	slotTotalStaked       = thor.BytesToBytes32([]byte(("total-staked")))
	slotFixedAvailable    = thor.BytesToBytes32([]byte(("fixed-rewards-available")))
	slotFixedObligation   = thor.BytesToBytes32([]byte(("fixed-obligation")))
	slotDynamicToAllocate = thor.BytesToBytes32([]byte(("dynamic-to-allocate")))
	slotDynamicAllocated  = thor.BytesToBytes32([]byte(("dynamic-allocated")))
)

// Totals is a snapshot of the contract-wide counters.
type Totals struct {
	RewardStartTime       uint64
	TotalStaked           *uint256.Int
	FixedRewardsAvailable *uint256.Int
	FixedObligation       *uint256.Int
	DynamicToAllocate     *uint256.Int
	DynamicAllocated      *uint256.Int
}

// Service manages contract-wide counters: the reward clock, total stake, the fixed reserve
// with its obligation, and the two sides of the dynamic pool.
type Service struct {
	rewardStartTime *solidity.Uint64

	totalStaked *solidity.Uint256

	fixedAvailable  *solidity.Uint256
	fixedObligation *solidity.Uint256

	dynamicToAllocate *solidity.Uint256
	dynamicAllocated  *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		rewardStartTime:   solidity.NewUint64(sctx, slotRewardStartTime),
		totalStaked:       solidity.NewUint256(sctx, slotTotalStaked),
		fixedAvailable:    solidity.NewUint256(sctx, slotFixedAvailable),
		fixedObligation:   solidity.NewUint256(sctx, slotFixedObligation),
		dynamicToAllocate: solidity.NewUint256(sctx, slotDynamicToAllocate),
		dynamicAllocated:  solidity.NewUint256(sctx, slotDynamicAllocated),
	}
}

func (s *Service) RewardStartTime() (uint64, error) {
	return s.rewardStartTime.Get()
}

func (s *Service) StartRewardClock(now uint64) {
	s.rewardStartTime.Set(now)
}

func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.totalStaked.Get()
}

func (s *Service) FixedRewardsAvailable() (*uint256.Int, error) {
	return s.fixedAvailable.Get()
}

func (s *Service) FixedObligation() (*uint256.Int, error) {
	return s.fixedObligation.Get()
}

func (s *Service) DynamicToAllocate() (*uint256.Int, error) {
	return s.dynamicToAllocate.Get()
}

func (s *Service) DynamicAllocated() (*uint256.Int, error) {
	return s.dynamicAllocated.Get()
}

// Totals reads every counter.
func (s *Service) Totals() (*Totals, error) {
	var (
		t   = &Totals{}
		err error
	)
	if t.RewardStartTime, err = s.rewardStartTime.Get(); err != nil {
		return nil, err
	}
	if t.TotalStaked, err = s.totalStaked.Get(); err != nil {
		return nil, err
	}
	if t.FixedRewardsAvailable, err = s.fixedAvailable.Get(); err != nil {
		return nil, err
	}
	if t.FixedObligation, err = s.fixedObligation.Get(); err != nil {
		return nil, err
	}
	if t.DynamicToAllocate, err = s.dynamicToAllocate.Get(); err != nil {
		return nil, err
	}
	if t.DynamicAllocated, err = s.dynamicAllocated.Get(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) AddStake(amount *uint256.Int) error {
	return errors.WithMessage(s.totalStaked.Add(amount), "total staked")
}

func (s *Service) RemoveStake(amount *uint256.Int) error {
	return errors.WithMessage(s.totalStaked.Sub(amount), "total staked")
}

func (s *Service) DepositFixed(amount *uint256.Int) error {
	return errors.WithMessage(s.fixedAvailable.Add(amount), "fixed rewards available")
}

// PayFixed takes a settled fixed reward out of the reserve.
func (s *Service) PayFixed(amount *uint256.Int) error {
	return errors.WithMessage(s.fixedAvailable.Sub(amount), "fixed rewards available")
}

// SetFixedAvailable overwrites the reserve, used when the surplus is withdrawn.
func (s *Service) SetFixedAvailable(amount *uint256.Int) error {
	return errors.WithMessage(s.fixedAvailable.Set(amount), "fixed rewards available")
}

// AdjustObligation replaces an account's previous obligation with its new one in the total.
func (s *Service) AdjustObligation(prev, next *uint256.Int) error {
	if err := s.fixedObligation.Sub(prev); err != nil {
		return errors.WithMessage(err, "fixed obligation")
	}
	return errors.WithMessage(s.fixedObligation.Add(next), "fixed obligation")
}

func (s *Service) DepositDynamic(amount *uint256.Int) error {
	return errors.WithMessage(s.dynamicToAllocate.Add(amount), "dynamic to allocate")
}

// Allocate moves amount from the unallocated to the allocated side of the dynamic pool.
func (s *Service) Allocate(amount *uint256.Int) error {
	if err := s.dynamicToAllocate.Sub(amount); err != nil {
		return errors.WithMessage(err, "dynamic to allocate")
	}
	return errors.WithMessage(s.dynamicAllocated.Add(amount), "dynamic allocated")
}

// PayDynamic takes a settled dynamic reward out of the allocated side.
func (s *Service) PayDynamic(amount *uint256.Int) error {
	return errors.WithMessage(s.dynamicAllocated.Sub(amount), "dynamic allocated")
}
