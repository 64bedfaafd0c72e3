// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/lvldb"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

const (
	day  = uint64(24 * 3600)
	year = 365 * day
	t0   = uint64(1_700_000_000)
)

var (
	contractAddr = thor.BytesToAddress([]byte("staking"))
	tokenAddr    = thor.BytesToAddress([]byte("token"))
	admin        = thor.BytesToAddress([]byte("admin"))
	alice        = thor.BytesToAddress([]byte("alice"))
	bob          = thor.BytesToAddress([]byte("bob"))
	carol        = thor.BytesToAddress([]byte("carol"))

	initialBalance = uint64(1_000_000)
)

func M(a ...any) []any {
	return a
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// testEnv wires the contract, its token and an event sink over one state,
// reverting failed operations the way the runtime does.
type testEnv struct {
	state   *state.State
	token   *token.Token
	staking *Staking
	events  []*Event
	moves   []*token.Transfer
}

func newTestEnv(t *testing.T, customize ...func(*Params)) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{state: state.New(db)}
	env.token = token.New(tokenAddr, "STK", env.state, func(tr *token.Transfer) { env.moves = append(env.moves, tr) })

	params := DefaultParams(contractAddr, admin)
	for _, fn := range customize {
		fn(params)
	}
	env.staking, err = New(params, env.state, env.token, func(ev *Event) { env.events = append(env.events, ev) }, nil)
	require.NoError(t, err)

	for _, addr := range []thor.Address{admin, alice, bob, carol} {
		require.NoError(t, env.token.Mint(addr, u(initialBalance)))
	}
	env.events = nil
	env.moves = nil
	return env
}

// do runs fn atomically: on error every state change, event and transfer it made is dropped.
func (e *testEnv) do(fn func() error) error {
	chk := e.state.NewCheckpoint()
	events, moves := len(e.events), len(e.moves)
	if err := fn(); err != nil {
		e.state.RevertTo(chk)
		e.events = e.events[:events]
		e.moves = e.moves[:moves]
		return err
	}
	return nil
}

func (e *testEnv) stake(addr thor.Address, amount, now uint64) error {
	return e.do(func() error { return e.staking.Stake(addr, u(amount), now) })
}

func (e *testEnv) unstake(addr thor.Address, amount, now uint64) error {
	return e.do(func() error { return e.staking.Unstake(addr, u(amount), now) })
}

func (e *testEnv) claim(addr thor.Address, now uint64) (*Settlement, error) {
	var st *Settlement
	err := e.do(func() (err error) {
		st, err = e.staking.Claim(addr, now)
		return
	})
	return st, err
}

func (e *testEnv) start(now uint64) error {
	return e.do(func() error {
		_, err := e.staking.StartRewardClock(admin, now)
		return err
	})
}

func (e *testEnv) depositFixed(amount uint64) error {
	return e.do(func() error {
		_, err := e.staking.DepositFixedReward(admin, u(amount))
		return err
	})
}

func (e *testEnv) depositDynamic(amount uint64) error {
	return e.do(func() error { return e.staking.DepositDynamicReward(admin, u(amount)) })
}

func (e *testEnv) allocate(addrs []thor.Address, amounts []uint64, total uint64) error {
	vals := make([]*uint256.Int, len(amounts))
	for i, a := range amounts {
		vals[i] = u(a)
	}
	return e.do(func() error { return e.staking.AllocateDynamicReward(admin, addrs, vals, u(total)) })
}

func (e *testEnv) withdrawFixed(now uint64) (*uint256.Int, error) {
	var amount *uint256.Int
	err := e.do(func() (err error) {
		amount, err = e.staking.WithdrawFixedReward(admin, now)
		return
	})
	return amount, err
}

func (e *testEnv) balance(t *testing.T, addr thor.Address) uint64 {
	bal, err := e.token.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Uint64()
}

// snapshot captures every counter and the given accounts, for unchanged-state assertions.
type snapshot struct {
	totals   []uint64
	accounts []any
	balances []uint64
}

func (e *testEnv) snapshot(t *testing.T, addrs ...thor.Address) snapshot {
	totals, err := e.staking.Totals()
	require.NoError(t, err)
	s := snapshot{totals: []uint64{
		totals.RewardStartTime,
		totals.TotalStaked.Uint64(),
		totals.FixedRewardsAvailable.Uint64(),
		totals.FixedObligation.Uint64(),
		totals.DynamicToAllocate.Uint64(),
		totals.DynamicAllocated.Uint64(),
	}}
	for _, addr := range append(addrs, contractAddr) {
		acc, err := e.staking.Account(addr)
		require.NoError(t, err)
		s.accounts = append(s.accounts, M(acc.Staked, acc.StakedAmount.Uint64(), acc.UnclaimedDynamic.Uint64(), acc.MaxObligation.Uint64(), acc.LastSettlementTime))
		s.balances = append(s.balances, e.balance(t, addr))
	}
	return s
}

// checkConservation asserts the contract holds exactly the principal plus the reserves,
// and that the per-account sums match the global counters.
func (e *testEnv) checkConservation(t *testing.T) {
	totals, err := e.staking.Totals()
	require.NoError(t, err)

	held := new(uint256.Int).Add(totals.TotalStaked, totals.FixedRewardsAvailable)
	held.Add(held, totals.DynamicToAllocate)
	held.Add(held, totals.DynamicAllocated)

	bal, err := e.token.BalanceOf(contractAddr)
	require.NoError(t, err)
	assert.Equal(t, held.Dec(), bal.Dec(), "contract balance must equal principal plus reserves")
	assert.NoError(t, e.staking.Audit())
}

func assertRevert(t *testing.T, err error, kind reverts.Kind, msgAndArgs ...any) {
	t.Helper()
	got, ok := reverts.KindOf(err)
	if assert.True(t, ok, append([]any{"expected revert, got %v", err}, msgAndArgs...)...) {
		assert.Equal(t, kind, got, msgAndArgs...)
	}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) StartClock(now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.start(now); err != nil {
			t.Fatalf("failed to start reward clock at %d: %v", now, err)
		}
		t.Logf("reward clock started at %d", now)
	})
}

func (st *TestSequence) DepositFixed(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.depositFixed(amount); err != nil {
			t.Fatalf("failed to deposit fixed reward %d: %v", amount, err)
		}
		t.Logf("deposited fixed reward %d", amount)
	})
}

func (st *TestSequence) DepositDynamic(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.depositDynamic(amount); err != nil {
			t.Fatalf("failed to deposit dynamic reward %d: %v", amount, err)
		}
		t.Logf("deposited dynamic reward %d", amount)
	})
}

func (st *TestSequence) Allocate(addrs []thor.Address, amounts []uint64, total uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.allocate(addrs, amounts, total); err != nil {
			t.Fatalf("failed to allocate %d: %v", total, err)
		}
		t.Logf("allocated %d to %d accounts", total, len(addrs))
	})
}

func (st *TestSequence) Stake(addr thor.Address, amount, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.stake(addr, amount, now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("%s staked %d at %d", addr, amount, now)
	})
}

func (st *TestSequence) Unstake(addr thor.Address, amount, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.unstake(addr, amount, now); err != nil {
			t.Fatalf("failed to unstake %d for %s: %v", amount, addr, err)
		}
		t.Logf("%s unstaked %d at %d", addr, amount, now)
	})
}

func (st *TestSequence) Claim(addr thor.Address, now uint64, fixed, dynamic uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		settlement, err := st.env.claim(addr, now)
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", addr, err)
		}
		assert.Equal(t, fixed, settlement.Fixed.Uint64(), "fixed reward of %s", addr)
		assert.Equal(t, dynamic, settlement.Dynamic.Uint64(), "dynamic reward of %s", addr)
	})
}

func (st *TestSequence) AssertTotals(totalStaked, fixedAvailable, obligation uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		totals, err := st.env.staking.Totals()
		require.NoError(t, err)
		assert.Equal(t, totalStaked, totals.TotalStaked.Uint64(), "total staked")
		assert.Equal(t, fixedAvailable, totals.FixedRewardsAvailable.Uint64(), "fixed rewards available")
		assert.Equal(t, obligation, totals.FixedObligation.Uint64(), "fixed obligation")
	})
}

func (st *TestSequence) AssertBalance(addr thor.Address, want uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, want, st.env.balance(t, addr), "token balance of %s", addr)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
		st.env.checkConservation(t)
	}
}
