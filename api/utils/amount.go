// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Amount is a token amount in JSON. It is written as a decimal string and read
// from a decimal or 0x-prefixed hex string, or from a JSON number.
type Amount uint256.Int

// NewAmount copies v; nil becomes zero.
func NewAmount(v *uint256.Int) *Amount {
	if v == nil {
		return (*Amount)(new(uint256.Int))
	}
	return (*Amount)(new(uint256.Int).Set(v))
}

// Int returns the amount as *uint256.Int.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return nil
	}
	return new(uint256.Int).Set((*uint256.Int)(a))
}

func (a *Amount) String() string {
	return (*uint256.Int)(a).Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal((*uint256.Int)(&a).Dec())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := unquote(data); err == nil {
		s = unquoted
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = Amount(*v)
	return nil
}

func unquote(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseAmount parses a decimal or 0x-prefixed hex amount.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hexutil.DecodeBig(strings.ToLower(s[:2]) + s[2:])
		if err != nil {
			return nil, errors.WithMessage(err, "amount")
		}
		v, overflow := uint256.FromBig(b)
		if overflow {
			return nil, errors.New("amount: exceeds 256 bits")
		}
		return v, nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.WithMessage(err, "amount")
	}
	return v, nil
}
