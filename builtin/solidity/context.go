// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

// AccessFunc is notified of every storage access with the number of 32 byte words touched.
type AccessFunc func(words uint64, write bool)

type Context struct {
	address thor.Address
	state   *state.State
	access  AccessFunc
}

func NewContext(address thor.Address, state *state.State, access AccessFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		access:  access,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) touch(length int, write bool) {
	if c.access != nil {
		c.access(toWordSize(length), write)
	}
}

// toWordSize converts bytes length to word size, rounding up. Empty values still cost one word.
func toWordSize(length int) uint64 {
	if length <= 32 {
		return 1
	}
	return (uint64(length) + 31) / 32
}
