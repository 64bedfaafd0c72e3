// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/thor"
)

// ConfigVariable is a construction time parameter that is pinned in storage the first time it is seen.
// A node restarted with a different configured value keeps using the pinned one.
type ConfigVariable struct {
	slot  thor.Bytes32
	name  string
	value *uint256.Int
}

func NewConfigVariable(name string, value *uint256.Int) *ConfigVariable {
	return &ConfigVariable{
		slot:  thor.BytesToBytes32([]byte(name)),
		name:  name,
		value: new(uint256.Int).Set(value),
	}
}

func (c *ConfigVariable) Get() *uint256.Int {
	return new(uint256.Int).Set(c.value)
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

// Pin loads the stored value, or stores the configured one when the slot is empty.
func (c *ConfigVariable) Pin(ctx *Context) error {
	stored := NewUint256(ctx, c.slot)
	num, err := stored.Get()
	if err != nil {
		return err
	}
	if num.IsZero() {
		log.Debug("pinning config value", "slot", c.Name(), "value", c.value)
		return stored.Set(c.value)
	}
	if !num.Eq(c.value) {
		log.Warn("configured value differs from pinned value, using pinned", "slot", c.Name(), "configured", c.value, "pinned", num)
	}
	c.value = num
	return nil
}
