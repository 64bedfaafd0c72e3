// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events serves the staking events recorded in the log database.
package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{db: db, limit: logsLimit}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.ValidateLogQuery(filter.Options, filter.Range, filter.Order, e.limit); err != nil {
		return err
	}
	for i, criteria := range filter.CriteriaSet {
		// {} matches everything, null is a client mistake
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		if criteria.Name != "" && criteria.Topic != nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: name and topic are exclusive", i))
		}
	}

	events, err := e.db.FilterEvents(req.Context(), convertEventFilter(&filter, e.limit))
	if err != nil {
		return err
	}
	if err := utils.CheckResultSize(len(events), e.limit); err != nil {
		return err
	}

	res := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		res[i] = convertEvent(ev)
	}
	return utils.WriteJSON(w, res)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
