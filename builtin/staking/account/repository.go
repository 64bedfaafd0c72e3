// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/thor"
)

var (
	slotAccounts = thor.BytesToBytes32([]byte(("accounts")))
	slotCount    = thor.BytesToBytes32([]byte(("accounts-count")))
	slotIndex    = thor.BytesToBytes32([]byte(("accounts-index")))
)

// Repository stores account records and an insertion ordered index of their addresses,
// so that ledger wide invariants can be audited.
type Repository struct {
	accounts *solidity.Mapping[thor.Address, *Account]
	index    *solidity.Mapping[thor.Bytes32, thor.Address]
	count    *solidity.Uint64
}

func NewRepository(sctx *solidity.Context) *Repository {
	return &Repository{
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
		index:    solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotIndex),
		count:    solidity.NewUint64(sctx, slotCount),
	}
}

// Get returns the record of addr, an empty record if none exists.
func (r *Repository) Get(addr thor.Address) (*Account, error) {
	acc, err := r.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", addr)
	}
	return acc.normalize(), nil
}

// Set writes the record of addr, indexing the address on its first write.
// An empty record is the same as an absent one and is not written.
func (r *Repository) Set(addr thor.Address, acc *Account) error {
	prev, err := r.Get(addr)
	if err != nil {
		return err
	}
	if acc.IsEmpty() && prev.IsEmpty() {
		return nil
	}
	if prev.IsEmpty() {
		n, err := r.count.Get()
		if err != nil {
			return errors.Wrap(err, "failed to get account count")
		}
		if err := r.index.Set(indexKey(n), addr); err != nil {
			return errors.Wrap(err, "failed to index account")
		}
		r.count.Set(n + 1)
	}
	if err := r.accounts.Set(addr, acc); err != nil {
		return errors.Wrapf(err, "failed to set account %s", addr)
	}
	return nil
}

// Count returns the number of addresses ever written.
func (r *Repository) Count() (uint64, error) {
	return r.count.Get()
}

// Iterate calls fn for each indexed account in insertion order until fn returns false.
func (r *Repository) Iterate(fn func(thor.Address, *Account) bool) error {
	n, err := r.count.Get()
	if err != nil {
		return err
	}
	for i := range n {
		addr, err := r.index.Get(indexKey(i))
		if err != nil {
			return errors.Wrap(err, "failed to read account index")
		}
		acc, err := r.Get(addr)
		if err != nil {
			return err
		}
		if !fn(addr, acc) {
			return nil
		}
	}
	return nil
}

func indexKey(i uint64) thor.Bytes32 {
	var key thor.Bytes32
	for b := 0; b < 8; b++ {
		key[31-b] = byte(i >> (8 * b))
	}
	return key
}
