// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"fmt"
	"math"

	"github.com/vechain/stakerewards/logdb"
)

type RangeType string

const (
	OpRangeType   RangeType = "op"
	TimeRangeType RangeType = "time"
)

// Range selects logs by operation number or by time, both ends inclusive.
// A missing bound leaves that side open.
type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != OpRangeType && r.Unit != TimeRangeType {
		return fmt.Errorf("filter.Range.Unit must be either 'op' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("filter.Range.To must be greater than or equal to filter.Range.From")
	}
	return nil
}

// ConvertRange maps r onto a logdb range. Open upper bounds become MaxInt64,
// the largest value sqlite can compare against.
func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{Unit: logdb.Op, To: math.MaxInt64}
	if r.Unit == TimeRangeType {
		rng.Unit = logdb.Time
	}
	if r.From != nil {
		rng.From = min(*r.From, math.MaxInt64)
	}
	if r.To != nil {
		rng.To = min(*r.To, math.MaxInt64)
	}
	return rng
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64)
	}
	return nil
}

// ConvertOptions applies the default limit. Without explicit options one
// extra row is requested so callers can tell the result was cut short.
func ConvertOptions(o *Options, limit uint64) *logdb.Options {
	if o == nil {
		return &logdb.Options{Limit: limit + 1}
	}
	opts := &logdb.Options{Offset: o.Offset, Limit: limit}
	if o.Limit != nil {
		opts.Limit = *o.Limit
	}
	return opts
}

func ValidateOrder(order logdb.Order) error {
	if order != "" && order != logdb.ASC && order != logdb.DESC {
		return fmt.Errorf("order must be either 'asc' or 'desc', got '%s'", order)
	}
	return nil
}

// LogMeta locates a log within the operation that produced it.
type LogMeta struct {
	Op    uint64 `json:"op"`
	Index uint32 `json:"index"`
	Time  uint64 `json:"time"`
}

// ValidateLogQuery checks the paging, range and order shared by every log filter.
// A limit above the maximum is forbidden, the rest are bad requests.
func ValidateLogQuery(opts *Options, rng *Range, order logdb.Order, limit uint64) error {
	if err := opts.Validate(limit); err != nil {
		return Forbidden(err)
	}
	if err := rng.Validate(); err != nil {
		return BadRequest(err)
	}
	if err := ValidateOrder(order); err != nil {
		return BadRequest(err)
	}
	return nil
}

// CheckResultSize rejects a result of more than limit logs. It only trips for
// queries without options, which fetch one row past the limit.
func CheckResultSize(n int, limit uint64) error {
	if uint64(n) > limit { //#nosec G115
		return Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", limit))
	}
	return nil
}
