// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/thor"
)

// Event represents staking.Event that can be stored in db.
type Event struct {
	Op      uint64 // committed operation number
	Index   uint32 // position within the operation
	Time    uint64
	Topic   thor.Bytes32
	Name    string
	Account thor.Address
	Amount  *uint256.Int
	Fixed   *uint256.Int
	Dynamic *uint256.Int
}

func newEvent(op uint64, index uint32, time uint64, ev *staking.Event) *Event {
	return &Event{
		Op:      op,
		Index:   index,
		Time:    time,
		Topic:   ev.Topic(),
		Name:    ev.Name,
		Account: ev.Account,
		Amount:  ev.Amount,
		Fixed:   ev.Fixed,
		Dynamic: ev.Dynamic,
	}
}

// Transfer represents token.Transfer that can be stored in db.
type Transfer struct {
	Op        uint64
	Index     uint32
	Time      uint64
	Sender    thor.Address
	Recipient thor.Address
	Amount    *uint256.Int
}

func newTransfer(op uint64, index uint32, time uint64, tr *token.Transfer) *Transfer {
	return &Transfer{
		Op:        op,
		Index:     index,
		Time:      time,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    tr.Amount,
	}
}

type RangeType string

const (
	Op   RangeType = "op"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. To below From leaves the range open ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Topic   *thor.Bytes32 // keccak of the event name
	Account *thor.Address
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Sender    *thor.Address
	Recipient *thor.Address
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

func amountBytes(v *uint256.Int) []byte {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	return b[:]
}
