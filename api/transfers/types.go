// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/thor"
)

type FilteredTransfer struct {
	Sender    thor.Address  `json:"sender"`
	Recipient thor.Address  `json:"recipient"`
	Amount    *utils.Amount `json:"amount"`
	Meta      utils.LogMeta `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    utils.NewAmount(transfer.Amount),
		Meta: utils.LogMeta{
			Op:    transfer.Op,
			Index: transfer.Index,
			Time:  transfer.Time,
		},
	}
}

type TransferFilter struct {
	CriteriaSet []*logdb.TransferCriteria `json:"criteriaSet,omitempty"`
	Range       *utils.Range              `json:"range,omitempty"`
	Options     *utils.Options            `json:"options,omitempty"`
	Order       logdb.Order               `json:"order,omitempty"`
}
