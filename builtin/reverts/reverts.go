// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds the failure type of the builtin collaborators, such as the token gate.
// A require failure rejects the whole enclosing operation; any other error is an infrastructure fault.
package reverts

import "errors"

// ErrRequire is a precondition refused by a builtin, e.g. an insufficient balance.
type ErrRequire struct {
	reason string
}

// NewRequireError returns a require failure with the given reason.
func NewRequireError(reason string) *ErrRequire {
	return &ErrRequire{reason: reason}
}

func (e *ErrRequire) Error() string { return e.reason }

// IsRequireErr reports whether v is, or wraps, a non-nil require failure.
func IsRequireErr(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var re *ErrRequire
	return errors.As(err, &re) && re != nil
}
