// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes staking operations one at a time. Every operation runs
// against a checkpoint of the state; on failure the state, the token transfers and
// the emitted events are all discarded, on success they are committed together.
package runtime

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/kv"
	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

var logger = log.WithContext("pkg", "runtime")

// Config configures a Runtime.
type Config struct {
	Params      *staking.Params
	Token       thor.Address
	TokenSymbol string
	Genesis     []Allocation // minted once, when the state is fresh
	Clock       clockwork.Clock
}

// Receipt describes a committed operation.
type Receipt struct {
	Op        uint64
	Time      uint64
	Events    []*staking.Event
	Transfers []*token.Transfer
}

// Runtime owns the state and serializes access to it.
type Runtime struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	state   *state.State
	token   *token.Token
	staking *staking.Staking
	logDB   *logdb.LogDB

	op        uint64 // last committed op
	events    []*staking.Event
	transfers []*token.Transfer
}

// New opens the runtime over store. logDB receives the records of every committed op.
func New(store kv.Store, logDB *logdb.LogDB, cfg *Config) (*Runtime, error) {
	if cfg.Params == nil {
		return nil, errors.New("missing staking params")
	}
	if cfg.Token.IsZero() {
		return nil, errors.New("token address is zero")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	rt := &Runtime{
		clock: clock,
		state: state.New(store),
		logDB: logDB,
	}
	rt.token = token.New(cfg.Token, cfg.TokenSymbol, rt.state, rt.onTransfer)

	sk, err := staking.New(cfg.Params, rt.state, rt.token, rt.onEvent, storageAccessMeter(cfg.Params.Contract))
	if err != nil {
		return nil, err
	}
	rt.staking = sk

	op, err := logDB.NewestOp()
	if err != nil {
		return nil, err
	}
	rt.op = op

	// pinned params and genesis allocations form the first op of a fresh store
	if _, err := rt.execute("genesis", func(now uint64) error {
		return applyGenesis(rt.state, rt.token, cfg.Genesis, now)
	}); err != nil {
		return nil, errors.WithMessage(err, "apply genesis")
	}
	rt.updateGauges()

	logger.Info("runtime ready",
		"contract", sk.Address(),
		"token", rt.token.Address(),
		"admin", sk.Admin(),
		"lifetime", sk.RewardLifetime(),
		"apr", sk.FixedAPR(),
		"op", rt.op,
	)
	return rt, nil
}

func (rt *Runtime) onEvent(ev *staking.Event) {
	rt.events = append(rt.events, ev)
}

func (rt *Runtime) onTransfer(tr *token.Transfer) {
	rt.transfers = append(rt.transfers, tr)
}

// Now returns the clock in unix seconds.
func (rt *Runtime) Now() uint64 {
	return unixNow(rt.clock)
}

func unixNow(clock clockwork.Clock) uint64 {
	if sec := clock.Now().Unix(); sec > 0 {
		return uint64(sec)
	}
	return 0
}

// LogDB returns the log db the runtime writes to.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}

// LastOp returns the number of the last committed operation.
func (rt *Runtime) LastOp() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.op
}

// View runs fn with read access to the contract and the token as of now.
// fn must not change state.
func (rt *Runtime) View(fn func(sk *staking.Staking, tk *token.Token, now uint64) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.staking, rt.token, rt.Now())
}

// execute runs fn as one atomic operation. Changes are kept only when fn succeeds
// and both the state and the log are written.
func (rt *Runtime) execute(name string, fn func(now uint64) error) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := rt.clock.Now()
	now := unixNow(rt.clock)
	checkpoint := rt.state.NewCheckpoint()
	rt.events, rt.transfers = nil, nil

	receipt, err := rt.commit(fn, now, checkpoint)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		rt.events, rt.transfers = nil, nil
		observeOp(name, err, rt.clock.Since(start))
		logger.Debug("operation reverted", "op", name, "err", err)
		return nil, err
	}
	observeOp(name, nil, rt.clock.Since(start))
	logger.Debug("operation committed", "op", name, "seq", receipt.Op, "events", len(receipt.Events), "transfers", len(receipt.Transfers))
	return receipt, nil
}

func (rt *Runtime) commit(fn func(now uint64) error, now uint64, checkpoint int) (*Receipt, error) {
	if err := fn(now); err != nil {
		return nil, err
	}
	stage := rt.state.Stage()
	if stage.Len() == 0 && len(rt.events) == 0 && len(rt.transfers) == 0 {
		// nothing to write, drop the checkpoint
		rt.state.RevertTo(checkpoint)
		return &Receipt{Op: rt.op, Time: now}, nil
	}

	receipt := &Receipt{
		Op:        rt.op + 1,
		Time:      now,
		Events:    rt.events,
		Transfers: rt.transfers,
	}
	writer := rt.logDB.NewWriter()
	if err := writer.Write(receipt.Op, now, receipt.Events, receipt.Transfers); err != nil {
		_ = writer.Rollback()
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		_ = writer.Rollback()
		return nil, err
	}
	rt.op = receipt.Op
	// state is the source of truth; a lost log write is reported but does not undo the op
	if err := writer.Commit(); err != nil {
		logger.Error("failed to commit logs", "op", receipt.Op, "err", err)
	}
	rt.events, rt.transfers = nil, nil
	return receipt, nil
}

// StartRewardClock starts reward accrual at the current time.
func (rt *Runtime) StartRewardClock(caller thor.Address) (*Receipt, uint64, error) {
	var started uint64
	receipt, err := rt.execute("start", func(now uint64) (err error) {
		started, err = rt.staking.StartRewardClock(caller, now)
		return
	})
	if err != nil {
		return nil, 0, err
	}
	rt.updateGauges()
	return receipt, started, nil
}

func (rt *Runtime) Stake(caller thor.Address, amount *uint256.Int) (*Receipt, error) {
	receipt, err := rt.execute("stake", func(now uint64) error {
		return rt.staking.Stake(caller, amount, now)
	})
	rt.updateGauges()
	return receipt, err
}

func (rt *Runtime) Unstake(caller thor.Address, amount *uint256.Int) (*Receipt, error) {
	receipt, err := rt.execute("unstake", func(now uint64) error {
		return rt.staking.Unstake(caller, amount, now)
	})
	rt.updateGauges()
	return receipt, err
}

// Claim pays the caller's pending rewards.
func (rt *Runtime) Claim(caller thor.Address) (*Receipt, *staking.Settlement, error) {
	var settlement *staking.Settlement
	receipt, err := rt.execute("claim", func(now uint64) (err error) {
		settlement, err = rt.staking.Claim(caller, now)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	rt.updateGauges()
	return receipt, settlement, nil
}

// DepositFixedReward returns the fixed pool balance after the deposit.
func (rt *Runtime) DepositFixedReward(caller thor.Address, amount *uint256.Int) (*Receipt, *uint256.Int, error) {
	var available *uint256.Int
	receipt, err := rt.execute("deposit_fixed", func(uint64) (err error) {
		available, err = rt.staking.DepositFixedReward(caller, amount)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	rt.updateGauges()
	return receipt, available, nil
}

// WithdrawFixedReward returns the amount withdrawn.
func (rt *Runtime) WithdrawFixedReward(caller thor.Address) (*Receipt, *uint256.Int, error) {
	var withdrawn *uint256.Int
	receipt, err := rt.execute("withdraw_fixed", func(now uint64) (err error) {
		withdrawn, err = rt.staking.WithdrawFixedReward(caller, now)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	rt.updateGauges()
	return receipt, withdrawn, nil
}

func (rt *Runtime) DepositDynamicReward(caller thor.Address, amount *uint256.Int) (*Receipt, error) {
	receipt, err := rt.execute("deposit_dynamic", func(uint64) error {
		return rt.staking.DepositDynamicReward(caller, amount)
	})
	rt.updateGauges()
	return receipt, err
}

// AllocateDynamicReward credits one batch of dynamic rewards.
func (rt *Runtime) AllocateDynamicReward(caller thor.Address, addresses []thor.Address, amounts []*uint256.Int, total *uint256.Int) (*Receipt, error) {
	receipt, err := rt.execute("allocate_dynamic", func(uint64) error {
		return rt.staking.AllocateDynamicReward(caller, addresses, amounts, total)
	})
	rt.updateGauges()
	return receipt, err
}
