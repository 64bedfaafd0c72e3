// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/api/utils"
	contract "github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/staking/pools"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/thor"
)

type Params struct {
	Contract        thor.Address  `json:"contract"`
	Admin           thor.Address  `json:"admin"`
	Token           thor.Address  `json:"token"`
	RewardLifetime  uint64        `json:"rewardLifetime"`
	FixedAPR        uint64        `json:"fixedAPR"`
	MaxStakable     *utils.Amount `json:"maxStakable"`
	RewardStartTime uint64        `json:"rewardStartTime"`
}

type Totals struct {
	RewardStartTime       uint64        `json:"rewardStartTime"`
	TotalStaked           *utils.Amount `json:"totalStaked"`
	FixedRewardsAvailable *utils.Amount `json:"fixedRewardsAvailable"`
	FixedObligation       *utils.Amount `json:"fixedObligation"`
	DynamicToAllocate     *utils.Amount `json:"dynamicTokensToAllocate"`
	DynamicAllocated      *utils.Amount `json:"dynamicTokensAllocated"`
	Accounts              uint64        `json:"accounts"`
}

func convertTotals(t *pools.Totals, accounts uint64) *Totals {
	return &Totals{
		RewardStartTime:       t.RewardStartTime,
		TotalStaked:           utils.NewAmount(t.TotalStaked),
		FixedRewardsAvailable: utils.NewAmount(t.FixedRewardsAvailable),
		FixedObligation:       utils.NewAmount(t.FixedObligation),
		DynamicToAllocate:     utils.NewAmount(t.DynamicToAllocate),
		DynamicAllocated:      utils.NewAmount(t.DynamicAllocated),
		Accounts:              accounts,
	}
}

// Account is the account view as of Time.
type Account struct {
	Staked             bool          `json:"staked"`
	StakedAmount       *utils.Amount `json:"stakedAmount"`
	PendingFixed       *utils.Amount `json:"pendingFixedReward"`
	PendingDynamic     *utils.Amount `json:"pendingDynamicReward"`
	MaxObligation      *utils.Amount `json:"maxObligation"`
	LastSettlementTime uint64        `json:"lastSettlementTime"`
	EffectiveClaimTime uint64        `json:"effectiveClaimTime"`
	Time               uint64        `json:"time"`
}

func convertAccount(info *contract.AccountInfo, now uint64) *Account {
	return &Account{
		Staked:             info.Staked,
		StakedAmount:       utils.NewAmount(info.StakedAmount),
		PendingFixed:       utils.NewAmount(info.PendingFixed),
		PendingDynamic:     utils.NewAmount(info.PendingDynamic),
		MaxObligation:      utils.NewAmount(info.MaxObligation),
		LastSettlementTime: info.LastSettlementTime,
		EffectiveClaimTime: info.EffectiveClaimTime,
		Time:               now,
	}
}

// Share is the pair a stake percentage is derived from.
type Share struct {
	Total      *utils.Amount `json:"total"`
	Individual *utils.Amount `json:"individual"`
}

type Event struct {
	Name    string        `json:"name"`
	Account thor.Address  `json:"account"`
	Amount  *utils.Amount `json:"amount"`
	Fixed   *utils.Amount `json:"fixed"`
	Dynamic *utils.Amount `json:"dynamic"`
}

type Transfer struct {
	Sender    thor.Address  `json:"sender"`
	Recipient thor.Address  `json:"recipient"`
	Amount    *utils.Amount `json:"amount"`
}

// Receipt describes a committed operation.
type Receipt struct {
	Op        uint64      `json:"op"`
	Time      uint64      `json:"time"`
	Events    []*Event    `json:"events"`
	Transfers []*Transfer `json:"transfers"`
}

func convertReceipt(r *runtime.Receipt) *Receipt {
	receipt := &Receipt{
		Op:        r.Op,
		Time:      r.Time,
		Events:    make([]*Event, 0, len(r.Events)),
		Transfers: make([]*Transfer, 0, len(r.Transfers)),
	}
	for _, ev := range r.Events {
		receipt.Events = append(receipt.Events, &Event{
			Name:    ev.Name,
			Account: ev.Account,
			Amount:  utils.NewAmount(ev.Amount),
			Fixed:   utils.NewAmount(ev.Fixed),
			Dynamic: utils.NewAmount(ev.Dynamic),
		})
	}
	for _, tr := range r.Transfers {
		receipt.Transfers = append(receipt.Transfers, &Transfer{
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    utils.NewAmount(tr.Amount),
		})
	}
	return receipt
}

// CallerRequest is the body of operations that only need the caller.
type CallerRequest struct {
	Caller thor.Address `json:"caller"`
}

// AmountRequest is the body of operations moving an amount.
type AmountRequest struct {
	Caller thor.Address  `json:"caller"`
	Amount *utils.Amount `json:"amount"`
}

type AllocateRequest struct {
	Caller    thor.Address    `json:"caller"`
	Addresses []thor.Address  `json:"addresses"`
	Amounts   []*utils.Amount `json:"amounts"`
	Total     *utils.Amount   `json:"total"`
}

type ClaimResult struct {
	Receipt *Receipt      `json:"receipt"`
	Fixed   *utils.Amount `json:"fixed"`
	Dynamic *utils.Amount `json:"dynamic"`
}

type StartResult struct {
	Receipt   *Receipt `json:"receipt"`
	StartTime uint64   `json:"startTime"`
}

// AmountResult carries the amount an administrator operation reports back.
type AmountResult struct {
	Receipt *Receipt      `json:"receipt"`
	Amount  *utils.Amount `json:"amount"`
}

func amounts(in []*utils.Amount) []*uint256.Int {
	out := make([]*uint256.Int, len(in))
	for i, a := range in {
		out[i] = a.Int()
	}
	return out
}
