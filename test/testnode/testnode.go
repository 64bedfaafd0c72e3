// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode builds a runtime over in-memory stores and a fake clock.
package testnode

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/lvldb"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/thor"
)

// StartTime is the fake clock's initial unix time.
const StartTime = int64(1_700_000_000)

// Balance every default account is funded with at genesis.
const Balance = 1_000_000

var (
	Contract = thor.BytesToAddress([]byte("staking"))
	Token    = thor.BytesToAddress([]byte("token"))
	Admin    = thor.BytesToAddress([]byte("admin"))
	Alice    = thor.BytesToAddress([]byte("alice"))
	Bob      = thor.BytesToAddress([]byte("bob"))
)

type Node struct {
	Runtime *runtime.Runtime
	LogDB   *logdb.LogDB
	Clock   *clockwork.FakeClock
}

// New opens a runtime with default params, funding Admin, Alice and Bob.
func New(t testing.TB) *Node {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(StartTime, 0))
	rt, err := runtime.New(store, logDB, &runtime.Config{
		Params:      staking.DefaultParams(Contract, Admin),
		Token:       Token,
		TokenSymbol: "STK",
		Clock:       clock,
		Genesis: []runtime.Allocation{
			{Address: Admin, Amount: uint256.NewInt(Balance)},
			{Address: Alice, Amount: uint256.NewInt(Balance)},
			{Address: Bob, Amount: uint256.NewInt(Balance)},
		},
	})
	require.NoError(t, err)

	return &Node{Runtime: rt, LogDB: logDB, Clock: clock}
}
