// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/thor"
)

// Event names.
const (
	EventStaked                 = "Staked"
	EventUnstaked               = "Unstaked"
	EventRewardClaimed          = "RewardClaimed"
	EventRewardClockStarted     = "RewardClockStarted"
	EventFixedRewardDeposited   = "FixedRewardDeposited"
	EventFixedRewardWithdrawn   = "FixedRewardWithdrawn"
	EventDynamicRewardDeposited = "DynamicRewardDeposited"
	EventDynamicRewardAllocated = "DynamicRewardAllocated"
	EventDynamicAllocationBatch = "DynamicAllocationBatch"
)

// Event is the structured notification of a state change.
// Amount is the principal or pool amount moved; Fixed and Dynamic are reward amounts paid.
type Event struct {
	Name    string
	Account thor.Address
	Amount  *uint256.Int
	Fixed   *uint256.Int
	Dynamic *uint256.Int
}

// Topic is the keccak hash of the event name.
func (e *Event) Topic() thor.Bytes32 {
	return thor.Keccak256([]byte(e.Name))
}

func newEvent(name string, account thor.Address, amount *uint256.Int) *Event {
	return &Event{
		Name:    name,
		Account: account,
		Amount:  orZero(amount),
		Fixed:   new(uint256.Int),
		Dynamic: new(uint256.Int),
	}
}

func (s *Staking) emit(ev *Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}
