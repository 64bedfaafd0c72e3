// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transfers serves the token movements recorded by staking operations.
package transfers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/logdb"
)

type Transfers struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Transfers {
	return &Transfers{db: db, limit: logsLimit}
}

func (t *Transfers) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.ValidateLogQuery(filter.Options, filter.Range, filter.Order, t.limit); err != nil {
		return err
	}
	for i, criteria := range filter.CriteriaSet {
		// {} matches everything, null is a client mistake
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}

	transfers, err := t.db.FilterTransfers(req.Context(), &logdb.TransferFilter{
		CriteriaSet: filter.CriteriaSet,
		Range:       utils.ConvertRange(filter.Range),
		Options:     utils.ConvertOptions(filter.Options, t.limit),
		Order:       filter.Order,
	})
	if err != nil {
		return err
	}
	if err := utils.CheckResultSize(len(transfers), t.limit); err != nil {
		return err
	}

	res := make([]*FilteredTransfer, len(transfers))
	for i, tr := range transfers {
		res[i] = convertTransfer(tr)
	}
	return utils.WriteJSON(w, res)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilter))
}
