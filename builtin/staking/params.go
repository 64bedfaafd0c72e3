// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/thor"
)

// Params are the construction time parameters of the contract. They are pinned in storage
// on first use and are immutable afterwards.
type Params struct {
	Contract       thor.Address // address holding staked principal and reward reserves
	Admin          thor.Address // the only caller allowed to run administrator operations
	RewardLifetime uint64       // length of the reward window, seconds
	FixedAPR       uint64       // annual fixed rate, basis points
	MaxStakable    *uint256.Int // ceiling on total staked
}

// DefaultParams returns params with the default lifetime and rate and an uncapped stake.
func DefaultParams(contract, admin thor.Address) *Params {
	return &Params{
		Contract:       contract,
		Admin:          admin,
		RewardLifetime: thor.DefaultRewardLifetime,
		FixedAPR:       thor.DefaultFixedAPR,
		MaxStakable:    new(uint256.Int).Set(thor.MaxAmount),
	}
}

// Validate checks the params are usable.
func (p *Params) Validate() error {
	if p.Contract.IsZero() {
		return errors.New("contract address is zero")
	}
	if p.Admin.IsZero() {
		return errors.New("admin address is zero")
	}
	if p.Admin == p.Contract {
		return errors.New("admin address is the contract address")
	}
	if p.RewardLifetime == 0 || p.RewardLifetime > thor.MaxRewardLifetime {
		return errors.Errorf("reward lifetime %d out of range (0, %d]", p.RewardLifetime, thor.MaxRewardLifetime)
	}
	if p.FixedAPR > thor.MaxFixedAPR {
		return errors.Errorf("fixed apr %d exceeds %d", p.FixedAPR, thor.MaxFixedAPR)
	}
	if p.MaxStakable == nil || p.MaxStakable.IsZero() || !thor.IsValidAmount(p.MaxStakable) {
		return errors.New("max stakable must be a non-zero 128 bit amount")
	}
	return nil
}
