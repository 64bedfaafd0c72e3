// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/api/utils"
	contract "github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/thor"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

// opError maps an operation failure to its http status. Rejections by the
// contract are the client's fault; anything else is ours.
func opError(err error) error {
	if kind, ok := reverts.KindOf(err); ok {
		if kind == reverts.Unauthorized {
			return utils.Forbidden(err)
		}
		return utils.BadRequest(err)
	}
	if errors.Is(err, safemath.ErrOverflow) || errors.Is(err, safemath.ErrUnderflow) {
		return utils.BadRequest(err)
	}
	return err
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	var params *Params
	if err := s.rt.View(func(sk *contract.Staking, _ *token.Token, _ uint64) error {
		start, err := sk.RewardStartTime()
		if err != nil {
			return err
		}
		params = &Params{
			Contract:        sk.Address(),
			Admin:           sk.Admin(),
			Token:           sk.Token(),
			RewardLifetime:  sk.RewardLifetime(),
			FixedAPR:        sk.FixedAPR(),
			MaxStakable:     utils.NewAmount(sk.MaxStakable()),
			RewardStartTime: start,
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, params)
}

func (s *Staking) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	var totals *Totals
	if err := s.rt.View(func(sk *contract.Staking, _ *token.Token, _ uint64) error {
		t, err := sk.Totals()
		if err != nil {
			return err
		}
		count, err := sk.AccountCount()
		if err != nil {
			return err
		}
		totals = convertTotals(t, count)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, totals)
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var acc *Account
	if err := s.rt.View(func(sk *contract.Staking, _ *token.Token, now uint64) error {
		info, err := sk.AccountInfo(addr, now)
		if err != nil {
			return err
		}
		acc = convertAccount(info, now)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Staking) handleGetShare(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var share *Share
	if err := s.rt.View(func(sk *contract.Staking, _ *token.Token, _ uint64) error {
		total, individual, err := sk.StakePercentage(addr)
		if err != nil {
			return err
		}
		share = &Share{Total: utils.NewAmount(total), Individual: utils.NewAmount(individual)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, share)
}

func parseAmountRequest(req *http.Request) (thor.Address, *uint256.Int, error) {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return thor.Address{}, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return thor.Address{}, nil, utils.BadRequest(errors.New("body: amount required"))
	}
	return body.Caller, body.Amount.Int(), nil
}

func parseCallerRequest(req *http.Request) (thor.Address, error) {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return body.Caller, nil
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	caller, amount, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	receipt, err := s.rt.Stake(caller, amount)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	caller, amount, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	receipt, err := s.rt.Unstake(caller, amount)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseCallerRequest(req)
	if err != nil {
		return err
	}
	receipt, settlement, err := s.rt.Claim(caller)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, &ClaimResult{
		Receipt: convertReceipt(receipt),
		Fixed:   utils.NewAmount(settlement.Fixed),
		Dynamic: utils.NewAmount(settlement.Dynamic),
	})
}

func (s *Staking) handleStartClock(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseCallerRequest(req)
	if err != nil {
		return err
	}
	receipt, start, err := s.rt.StartRewardClock(caller)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, &StartResult{Receipt: convertReceipt(receipt), StartTime: start})
}

func (s *Staking) handleDepositFixed(w http.ResponseWriter, req *http.Request) error {
	caller, amount, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	receipt, available, err := s.rt.DepositFixedReward(caller, amount)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, &AmountResult{Receipt: convertReceipt(receipt), Amount: utils.NewAmount(available)})
}

func (s *Staking) handleWithdrawFixed(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseCallerRequest(req)
	if err != nil {
		return err
	}
	receipt, withdrawn, err := s.rt.WithdrawFixedReward(caller)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, &AmountResult{Receipt: convertReceipt(receipt), Amount: utils.NewAmount(withdrawn)})
}

func (s *Staking) handleDepositDynamic(w http.ResponseWriter, req *http.Request) error {
	caller, amount, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	receipt, err := s.rt.DepositDynamicReward(caller, amount)
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (s *Staking) handleAllocateDynamic(w http.ResponseWriter, req *http.Request) error {
	var body AllocateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := s.rt.AllocateDynamicReward(body.Caller, body.Addresses, amounts(body.Amounts), body.Total.Int())
	if err != nil {
		return opError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /staking/params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /staking/totals").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/accounts/{address}/share").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}/share").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetShare))

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /staking/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /staking/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))

	sub.Path("/admin/start").
		Methods(http.MethodPost).
		Name("POST /staking/admin/start").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStartClock))
	sub.Path("/admin/fixed/deposit").
		Methods(http.MethodPost).
		Name("POST /staking/admin/fixed/deposit").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDepositFixed))
	sub.Path("/admin/fixed/withdraw").
		Methods(http.MethodPost).
		Name("POST /staking/admin/fixed/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdrawFixed))
	sub.Path("/admin/dynamic/deposit").
		Methods(http.MethodPost).
		Name("POST /staking/admin/dynamic/deposit").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDepositDynamic))
	sub.Path("/admin/dynamic/allocate").
		Methods(http.MethodPost).
		Name("POST /staking/admin/dynamic/allocate").
		HandlerFunc(utils.WrapHandlerFunc(s.handleAllocateDynamic))
}
