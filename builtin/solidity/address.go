// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakerewards/thor"
)

// Address is an address held in one slot, right aligned. The zero address reads as unset.
type Address struct {
	context *Context
	slot    thor.Bytes32
}

func NewAddress(context *Context, slot thor.Bytes32) *Address {
	return &Address{context: context, slot: slot}
}

func (a *Address) Get() (thor.Address, error) {
	word, err := a.context.state.GetStorage(a.context.address, a.slot)
	if err != nil {
		return thor.Address{}, err
	}
	a.context.touch(thor.AddressLength, false)
	return thor.BytesToAddress(word.Bytes()), nil
}

// Set stores addr. Setting the zero address clears the slot.
func (a *Address) Set(addr thor.Address) {
	a.context.state.SetStorage(a.context.address, a.slot, thor.BytesToBytes32(addr.Bytes()))
	a.context.touch(thor.AddressLength, true)
}
