// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/controller"
)

func NewJSONRPCStateServer(stateReader stateReader) *JSONRPCStateServer {
	return &JSONRPCStateServer{
		r: stateReader,
	}
}

// JSONRPCStateServer gives read access to pools and balances. Nothing it
// serves moves funds.
type JSONRPCStateServer struct {
	r stateReader
}

type PoolsReply struct {
	Pools []codec.Address `json:"pools"`
}

func (s *JSONRPCStateServer) Pools(req *http.Request, _ *struct{}, reply *PoolsReply) (err error) {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.Pools")
	defer span.End()

	reply.Pools, err = s.r.Pools(ctx)
	return err
}

type PoolArgs struct {
	Pool codec.Address `json:"pool"`
}

func (s *JSONRPCStateServer) Pool(req *http.Request, args *PoolArgs, reply *controller.PoolInfo) error {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.Pool")
	defer span.End()

	info, err := s.r.Pool(ctx, args.Pool)
	if err != nil {
		return err
	}
	*reply = *info
	return nil
}

type BalanceArgs struct {
	Asset   codec.Address `json:"asset"`
	Account codec.Address `json:"account"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (s *JSONRPCStateServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) (err error) {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.Balance")
	defer span.End()

	reply.Amount, err = s.r.Balance(ctx, args.Asset, args.Account)
	return err
}

type QuoteDepositArgs struct {
	Pool   codec.Address `json:"pool"`
	Shares uint64        `json:"shares"`
	MaxX   uint64        `json:"maxX"`
	MaxY   uint64        `json:"maxY"`
}

func (s *JSONRPCStateServer) QuoteDeposit(req *http.Request, args *QuoteDepositArgs, reply *actions.DepositResult) error {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.QuoteDeposit")
	defer span.End()

	quote, err := s.r.QuoteDeposit(ctx, args.Pool, args.Shares, args.MaxX, args.MaxY)
	if err != nil {
		return err
	}
	*reply = *quote
	return nil
}

type QuoteWithdrawArgs struct {
	Pool   codec.Address `json:"pool"`
	Shares uint64        `json:"shares"`
}

func (s *JSONRPCStateServer) QuoteWithdraw(req *http.Request, args *QuoteWithdrawArgs, reply *actions.WithdrawResult) error {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.QuoteWithdraw")
	defer span.End()

	quote, err := s.r.QuoteWithdraw(ctx, args.Pool, args.Shares)
	if err != nil {
		return err
	}
	*reply = *quote
	return nil
}

type QuoteSwapArgs struct {
	Pool     codec.Address `json:"pool"`
	IsX      bool          `json:"isX"`
	AmountIn uint64        `json:"amountIn"`
}

func (s *JSONRPCStateServer) QuoteSwap(req *http.Request, args *QuoteSwapArgs, reply *actions.SwapResult) error {
	ctx, span := s.r.Tracer().Start(req.Context(), "Server.QuoteSwap")
	defer span.End()

	quote, err := s.r.QuoteSwap(ctx, args.Pool, args.IsX, args.AmountIn)
	if err != nil {
		return err
	}
	*reply = *quote
	return nil
}
