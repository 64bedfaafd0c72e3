// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/lvldb"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

func newRepo(t *testing.T) *Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(solidity.NewContext(thor.Address{1}, state.New(db), nil))
}

func TestGetMissing(t *testing.T) {
	repo := newRepo(t)

	acc, err := repo.Get(thor.BytesToAddress([]byte("nobody")))
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
	assert.False(t, acc.HasStake())
	assert.True(t, acc.StakedAmount.IsZero())
}

func TestSetAndIndex(t *testing.T) {
	repo := newRepo(t)
	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	acc := newAccount()
	acc.Staked = true
	acc.StakedAmount = uint256.NewInt(100)
	acc.LastSettlementTime = 0 // time zero is legal once the presence flag is set
	require.NoError(t, repo.Set(alice, acc))

	credit := newAccount()
	credit.UnclaimedDynamic = uint256.NewInt(5)
	require.NoError(t, repo.Set(bob, credit))

	// rewriting does not index twice
	acc.StakedAmount = uint256.NewInt(150)
	require.NoError(t, repo.Set(alice, acc))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	got, err := repo.Get(alice)
	require.NoError(t, err)
	assert.True(t, got.Staked)
	assert.False(t, got.IsEmpty())
	assert.Equal(t, uint64(150), got.StakedAmount.Uint64())

	var seen []thor.Address
	require.NoError(t, repo.Iterate(func(addr thor.Address, a *Account) bool {
		seen = append(seen, addr)
		return true
	}))
	assert.Equal(t, []thor.Address{alice, bob}, seen)

	seen = nil
	require.NoError(t, repo.Iterate(func(addr thor.Address, a *Account) bool {
		seen = append(seen, addr)
		return false
	}))
	assert.Len(t, seen, 1)
}

func TestEmptyRecordNotIndexed(t *testing.T) {
	repo := newRepo(t)
	addr := thor.BytesToAddress([]byte("carol"))

	require.NoError(t, repo.Set(addr, newAccount()))
	n, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	credit := newAccount()
	credit.UnclaimedDynamic = uint256.NewInt(1)
	require.NoError(t, repo.Set(addr, credit))
	n, _ = repo.Count()
	assert.Equal(t, uint64(1), n)
}
