// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/vechain/stakerewards/metrics"
)

var (
	metricQueries       = metrics.LazyLoadCounterVec("logdb_queries_count", []string{"type", "order", "fields"})
	metricCriteriaCount = metrics.LazyLoadHistogramVec("logdb_query_criteria", []string{"type"}, []int64{0, 1, 2, 5, 10, 25, 100})
	metricQueryLimit    = metrics.LazyLoadHistogramVec("logdb_query_limit", []string{"type"}, []int64{5, 10, 25, 50, 100, 250, 500, 1000})
)

func observeEventQuery(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}
	fields := make([]string, 0, len(filter.CriteriaSet))
	for _, c := range filter.CriteriaSet {
		fields = append(fields, criteriaFields(c.Topic != nil, "topic", c.Account != nil, "account"))
	}
	observeQuery("event", filter.Order, filter.Options, fields)
}

func observeTransferQuery(filter *TransferFilter) {
	if metrics.NoOp() {
		return
	}
	fields := make([]string, 0, len(filter.CriteriaSet))
	for _, c := range filter.CriteriaSet {
		fields = append(fields, criteriaFields(c.Sender != nil, "sender", c.Recipient != nil, "recipient"))
	}
	observeQuery("transfer", filter.Order, filter.Options, fields)
}

// criteriaFields names the fields a criteria sets, "any" when it matches everything.
func criteriaFields(firstSet bool, first string, secondSet bool, second string) string {
	switch {
	case firstSet && secondSet:
		return first + "+" + second
	case firstSet:
		return first
	case secondSet:
		return second
	}
	return "any"
}

func observeQuery(kind string, order Order, opts *Options, fields []string) {
	if order != DESC {
		order = ASC
	}
	labels := map[string]string{"type": kind, "order": string(order), "fields": strings.Join(fields, ",")}
	metricQueries().AddWithLabel(1, labels)
	metricCriteriaCount().ObserveWithLabels(int64(len(fields)), map[string]string{"type": kind})
	if opts != nil {
		metricQueryLimit().ObserveWithLabels(int64(min(opts.Limit, 1001)), map[string]string{"type": kind}) //#nosec G115
	}
}
