// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	"github.com/holiman/uint256"
)

// Format selects the encoding of log records.
type Format int

const (
	// FormatLogfmt writes key=value lines, used on terminals.
	FormatLogfmt Format = iota
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// NewHandler returns a handler writing records at or above level to w.
func NewHandler(w io.Writer, format Format, level slog.Leveler) slog.Handler {
	if level == nil {
		level = levelMaxVerbosity
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		opts.ReplaceAttr = func(_ []string, attr slog.Attr) slog.Attr { return replaceAttr(attr, false) }
		return slog.NewJSONHandler(w, opts)
	}
	opts.ReplaceAttr = func(_ []string, attr slog.Attr) slog.Attr { return replaceAttr(attr, true) }
	return slog.NewTextHandler(w, opts)
}

// discardHandler drops everything. It is the root handler until SetDefault is called.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h discardHandler) WithGroup(string) slog.Handler { return h }

// replaceAttr shortens the time and level keys and renders amounts in decimal.
func replaceAttr(attr slog.Attr, text bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			return attr
		}
		if text {
			return slog.String("t", attr.Value.Time().Format(timeFormat))
		}
		return slog.Attr{Key: "t", Value: attr.Value}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
		return attr
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if text {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *uint256.Int:
		attr.Value = slog.StringValue(decimal(v))
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}

func decimal(v *uint256.Int) string {
	if v == nil {
		return "<nil>"
	}
	return v.Dec()
}
