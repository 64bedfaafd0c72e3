// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/thor"
)

// Uint256 is a wrapper for storage and retrieval of an amount. Similar to storing an uint128 in a smart contract.
// Values wider than thor.AmountBits are rejected on write and Add/Sub never wrap.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.touch(32, false)
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) Set(value *uint256.Int) error {
	if !thor.IsValidAmount(value) {
		return errors.Wrap(safemath.ErrOverflow, "store amount")
	}
	u.context.state.SetStorage(u.context.address, u.pos, thor.Bytes32(value.Bytes32()))
	u.context.touch(32, true)
	return nil
}

func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	sum, err := safemath.Add(storage, value)
	if err != nil {
		return err
	}
	return u.Set(sum)
}

func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	diff, err := safemath.Sub(storage, value)
	if err != nil {
		return err
	}
	return u.Set(diff)
}

// Uint64 is a wrapper for storage and retrieval of a timestamp or duration.
type Uint64 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint64(context *Context, slot thor.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: slot}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	u.context.touch(32, false)
	return new(uint256.Int).SetBytes32(storage[:]).Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.context.state.SetStorage(u.context.address, u.pos, thor.Bytes32(uint256.NewInt(value).Bytes32()))
	u.context.touch(32, true)
}
