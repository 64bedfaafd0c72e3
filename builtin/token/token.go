// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token staked and paid out by the staking contract.
// Balances live in the same state as the staking ledger, so a transfer is undone together
// with the operation that made it.
package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/reverts"
	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/state"
	"github.com/vechain/stakerewards/thor"
)

var (
	logger = log.WithContext("pkg", "token")

	slotBalances    = thor.BytesToBytes32([]byte(("balances")))
	slotTotalSupply = thor.BytesToBytes32([]byte(("total-supply")))
)

// Transfer records a completed movement of tokens.
type Transfer struct {
	Sender    thor.Address
	Recipient thor.Address
	Amount    *uint256.Int
}

// Token is a fungible token ledger.
type Token struct {
	addr     thor.Address
	symbol   string
	balances *solidity.Mapping[thor.Address, *uint256.Int]
	supply   *solidity.Uint256
	onMove   func(*Transfer)
}

// New creates the token at addr. onMove, when set, observes every transfer and mint.
func New(addr thor.Address, symbol string, state *state.State, onMove func(*Transfer)) *Token {
	sctx := solidity.NewContext(addr, state, nil)
	return &Token{
		addr:     addr,
		symbol:   symbol,
		balances: solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		supply:   solidity.NewUint256(sctx, slotTotalSupply),
		onMove:   onMove,
	}
}

// Address returns the token identity.
func (t *Token) Address() thor.Address {
	return t.addr
}

func (t *Token) Symbol() string {
	return t.symbol
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.supply.Get()
}

func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get balance of %s", addr)
	}
	return bal, nil
}

// Mint credits new tokens to addr.
func (t *Token) Mint(to thor.Address, amount *uint256.Int) error {
	if err := t.supply.Add(amount); err != nil {
		if errors.Is(err, safemath.ErrOverflow) {
			return reverts.NewRequireError("total supply overflow")
		}
		return err
	}
	if err := t.credit(to, amount); err != nil {
		return err
	}
	t.record(thor.Address{}, to, amount)
	return nil
}

// Transfer moves amount from one account to another. It fails with a require error
// when the sender's balance is short, leaving both balances untouched.
func (t *Token) Transfer(from, to thor.Address, amount *uint256.Int) error {
	if !thor.IsValidAmount(amount) {
		return reverts.NewRequireError("invalid amount")
	}
	bal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		logger.Debug("transfer rejected", "from", from, "balance", bal, "amount", amount)
		return reverts.NewRequireError("insufficient balance")
	}
	if amount.IsZero() {
		return nil
	}
	if err := t.balances.Set(from, new(uint256.Int).Sub(bal, amount)); err != nil {
		return errors.Wrap(err, "debit")
	}
	if err := t.credit(to, amount); err != nil {
		return err
	}
	t.record(from, to, amount)
	return nil
}

func (t *Token) credit(to thor.Address, amount *uint256.Int) error {
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	sum, err := safemath.Add(bal, amount)
	if err != nil {
		return errors.WithMessage(err, "credit")
	}
	if err := t.balances.Set(to, sum); err != nil {
		return errors.Wrap(err, "credit")
	}
	return nil
}

func (t *Token) record(from, to thor.Address, amount *uint256.Int) {
	if t.onMove != nil {
		t.onMove(&Transfer{Sender: from, Recipient: to, Amount: new(uint256.Int).Set(amount)})
	}
}
