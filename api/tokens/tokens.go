// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/thor"
)

type Token struct {
	Address     thor.Address  `json:"address"`
	Symbol      string        `json:"symbol"`
	TotalSupply *utils.Amount `json:"totalSupply"`
}

type Balance struct {
	Balance *utils.Amount `json:"balance"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, _ *http.Request) error {
	var tok *Token
	if err := t.rt.View(func(_ *staking.Staking, tk *token.Token, _ uint64) error {
		supply, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		tok = &Token{
			Address:     tk.Address(),
			Symbol:      tk.Symbol(),
			TotalSupply: utils.NewAmount(supply),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, tok)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var bal *Balance
	if err := t.rt.View(func(_ *staking.Staking, tk *token.Token, _ uint64) error {
		b, err := tk.BalanceOf(addr)
		if err != nil {
			return err
		}
		bal = &Balance{Balance: utils.NewAmount(b)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, bal)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /token/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
