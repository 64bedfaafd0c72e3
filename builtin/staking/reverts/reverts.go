// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind uint8

const (
	// Policy is an action outside the allowed preconditions.
	Policy Kind = iota + 1
	// Unauthorized is an administrator operation called by someone else.
	Unauthorized
	// Funding is a reserve too small to honor a settlement, allocation or withdrawal.
	Funding
	// Input is malformed or inconsistent caller input.
	Input
)

func (k Kind) String() string {
	switch k {
	case Policy:
		return "policy"
	case Unauthorized:
		return "unauthorized"
	case Funding:
		return "funding"
	case Input:
		return "input"
	default:
		return "unknown"
	}
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	_, ok := KindOf(err)
	return ok
}

// KindOf returns the kind of the revert wrapped in err.
func KindOf(err any) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	e, ok := err.(error)
	if !ok {
		return 0, false
	}
	var ve *ErrRevert
	if !errors.As(e, &ve) {
		return 0, false
	}
	return ve.kind, true
}
