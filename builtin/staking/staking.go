// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/builtin/staking/account"
	"github.com/vechain/stakerewards/builtin/staking/accrual"
	"github.com/vechain/stakerewards/builtin/staking/pools"
	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

var (
	logger = log.WithContext("pkg", "staking")

	slotAdmin = thor.BytesToBytes32([]byte(("admin")))
)

// Token is the value-transfer gate. A transfer either completes or returns an error;
// a require error from builtin/reverts means the transfer was refused.
type Token interface {
	Address() thor.Address
	Transfer(from, to thor.Address, amount *uint256.Int) error
}

// Staking implements the staking and reward accounting contract.
type Staking struct {
	addr  thor.Address
	admin thor.Address
	token Token

	lifetime    uint64
	fixedAPR    uint64
	maxStakable *uint256.Int

	accounts *account.Repository
	pools    *pools.Service

	onEvent func(*Event)
}

// New creates the contract over state. Params are pinned in storage on first use; a later
// call with different params keeps the pinned values. onEvent and access may be nil.
func New(params *Params, st *state.State, token Token, onEvent func(*Event), access solidity.AccessFunc) (*Staking, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid staking params")
	}
	sctx := solidity.NewContext(params.Contract, st, access)

	lifetime := solidity.NewConfigVariable("reward-lifetime", uint256.NewInt(params.RewardLifetime))
	apr := solidity.NewConfigVariable("fixed-apr", uint256.NewInt(params.FixedAPR))
	maxStakable := solidity.NewConfigVariable("max-stakable", params.MaxStakable)
	for _, v := range []*solidity.ConfigVariable{lifetime, apr, maxStakable} {
		if err := v.Pin(sctx); err != nil {
			return nil, errors.WithMessagef(err, "pin %s", v.Name())
		}
	}

	adminSlot := solidity.NewAddress(sctx, slotAdmin)
	admin, err := adminSlot.Get()
	if err != nil {
		return nil, errors.WithMessage(err, "load admin")
	}
	if admin.IsZero() {
		admin = params.Admin
		adminSlot.Set(admin)
	} else if admin != params.Admin {
		logger.Warn("configured admin differs from pinned admin, using pinned", "configured", params.Admin, "pinned", admin)
	}

	return &Staking{
		addr:        params.Contract,
		admin:       admin,
		token:       token,
		lifetime:    lifetime.Get().Uint64(),
		fixedAPR:    apr.Get().Uint64(),
		maxStakable: maxStakable.Get(),
		accounts:    account.NewRepository(sctx),
		pools:       pools.New(sctx),
		onEvent:     onEvent,
	}, nil
}

func (s *Staking) schedule() (accrual.Schedule, error) {
	start, err := s.pools.RewardStartTime()
	if err != nil {
		return accrual.Schedule{}, err
	}
	return accrual.Schedule{Start: start, Lifetime: s.lifetime, APR: s.fixedAPR}, nil
}

//
// Getters - no state change
//

// Address returns the contract address holding principal and reserves.
func (s *Staking) Address() thor.Address {
	return s.addr
}

// Admin returns the administrator address.
func (s *Staking) Admin() thor.Address {
	return s.admin
}

// Token returns the identity of the staked token.
func (s *Staking) Token() thor.Address {
	return s.token.Address()
}

// RewardStartTime returns the reward clock start, zero if not started.
func (s *Staking) RewardStartTime() (uint64, error) {
	return s.pools.RewardStartTime()
}

func (s *Staking) RewardLifetime() uint64 {
	return s.lifetime
}

// FixedAPR returns the fixed annual rate in basis points.
func (s *Staking) FixedAPR() uint64 {
	return s.fixedAPR
}

func (s *Staking) MaxStakable() *uint256.Int {
	return new(uint256.Int).Set(s.maxStakable)
}

func (s *Staking) TotalStaked() (*uint256.Int, error) {
	return s.pools.TotalStaked()
}

func (s *Staking) FixedObligation() (*uint256.Int, error) {
	return s.pools.FixedObligation()
}

func (s *Staking) FixedRewardsAvailable() (*uint256.Int, error) {
	return s.pools.FixedRewardsAvailable()
}

func (s *Staking) DynamicTokensToAllocate() (*uint256.Int, error) {
	return s.pools.DynamicToAllocate()
}

func (s *Staking) DynamicTokensAllocated() (*uint256.Int, error) {
	return s.pools.DynamicAllocated()
}

// Totals returns every contract-wide counter.
func (s *Staking) Totals() (*pools.Totals, error) {
	return s.pools.Totals()
}

// Account returns the raw ledger record of addr.
func (s *Staking) Account(addr thor.Address) (*account.Account, error) {
	return s.accounts.Get(addr)
}

// StakedAmount returns the principal staked by addr.
func (s *Staking) StakedAmount(addr thor.Address) (*uint256.Int, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc.StakedAmount, nil
}

// StakePercentage returns the pair (total staked, staked by addr) from which the share is derived.
func (s *Staking) StakePercentage(addr thor.Address) (*uint256.Int, *uint256.Int, error) {
	total, err := s.pools.TotalStaked()
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, nil, err
	}
	return total, acc.StakedAmount, nil
}

// AccountInfo returns the view of addr as of now, including what a claim at now would pay.
func (s *Staking) AccountInfo(addr thor.Address, now uint64) (*AccountInfo, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	sched, err := s.schedule()
	if err != nil {
		return nil, err
	}
	pending := new(uint256.Int)
	if sched.Started() {
		if pending, err = sched.Reward(acc.StakedAmount, sched.Elapsed(acc.LastSettlementTime, now)); err != nil {
			return nil, err
		}
	}
	return &AccountInfo{
		Staked:             acc.Staked,
		StakedAmount:       acc.StakedAmount,
		PendingFixed:       pending,
		PendingDynamic:     acc.UnclaimedDynamic,
		MaxObligation:      acc.MaxObligation,
		LastSettlementTime: acc.LastSettlementTime,
		EffectiveClaimTime: sched.ClaimTime(now),
	}, nil
}

// AccountCount returns the number of ledger records.
func (s *Staking) AccountCount() (uint64, error) {
	return s.accounts.Count()
}
