// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

var (
	// genesisAddress owns the runtime's own bookkeeping slots.
	genesisAddress  = thor.BytesToAddress([]byte("genesis"))
	slotGenesisTime = thor.BytesToBytes32([]byte("genesis-time"))
)

// Allocation is a token balance minted at genesis.
type Allocation struct {
	Address thor.Address
	Amount  *uint256.Int
}

// applyGenesis mints the allocations the first time the state is opened and
// records when that happened. Later calls do nothing.
func applyGenesis(st *state.State, tk *token.Token, allocs []Allocation, now uint64) error {
	genesisTime := solidity.NewUint64(solidity.NewContext(genesisAddress, st, nil), slotGenesisTime)
	applied, err := genesisTime.Get()
	if err != nil {
		return err
	}
	if applied != 0 {
		return nil
	}

	for _, alloc := range allocs {
		if alloc.Amount == nil || !thor.IsValidAmount(alloc.Amount) {
			return errors.Errorf("invalid genesis amount for %v", alloc.Address)
		}
		if err := tk.Mint(alloc.Address, alloc.Amount); err != nil {
			return errors.WithMessagef(err, "mint to %v", alloc.Address)
		}
	}
	genesisTime.Set(max(now, 1))
	logger.Info("genesis applied", "allocations", len(allocs), "time", now)
	return nil
}
