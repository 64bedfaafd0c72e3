// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/thor"
)

// FilteredEvent is a staking event as stored in the log db.
type FilteredEvent struct {
	Name    string        `json:"name"`
	Topic   thor.Bytes32  `json:"topic"`
	Account thor.Address  `json:"account"`
	Amount  *utils.Amount `json:"amount"`
	Fixed   *utils.Amount `json:"fixed"`
	Dynamic *utils.Amount `json:"dynamic"`
	Meta    utils.LogMeta `json:"meta"`
}

func convertEvent(ev *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Name:    ev.Name,
		Topic:   ev.Topic,
		Account: ev.Account,
		Amount:  utils.NewAmount(ev.Amount),
		Fixed:   utils.NewAmount(ev.Fixed),
		Dynamic: utils.NewAmount(ev.Dynamic),
		Meta: utils.LogMeta{
			Op:    ev.Op,
			Index: ev.Index,
			Time:  ev.Time,
		},
	}
}

// EventCriteria matches on the event name, or its topic, and the account.
// Name and Topic are mutually exclusive.
type EventCriteria struct {
	Name    string        `json:"name,omitempty"`
	Topic   *thor.Bytes32 `json:"topic,omitempty"`
	Account *thor.Address `json:"account,omitempty"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *utils.Range     `json:"range,omitempty"`
	Options     *utils.Options   `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

func convertEventFilter(filter *EventFilter, limit uint64) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range:   utils.ConvertRange(filter.Range),
		Options: utils.ConvertOptions(filter.Options, limit),
		Order:   filter.Order,
	}
	if len(filter.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, criterion := range filter.CriteriaSet {
			topic := criterion.Topic
			if criterion.Name != "" {
				h := thor.Keccak256([]byte(criterion.Name))
				topic = &h
			}
			f.CriteriaSet[i] = &logdb.EventCriteria{
				Topic:   topic,
				Account: criterion.Account,
			}
		}
	}
	return f
}
