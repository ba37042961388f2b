// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/controller"
)

type Controller interface {
	Tracer() trace.Tracer
	Logger() logging.Logger

	Execute(ctx context.Context, actor codec.Address, action actions.Action) (actions.Result, error)
	ExecuteBatch(ctx context.Context, reqs []*controller.Request) ([]*controller.Response, error)
}

type stateReader interface {
	Tracer() trace.Tracer

	Pools(ctx context.Context) ([]codec.Address, error)
	Pool(ctx context.Context, pool codec.Address) (*controller.PoolInfo, error)
	Balance(ctx context.Context, asset codec.Address, account codec.Address) (uint64, error)
	QuoteDeposit(ctx context.Context, pool codec.Address, shares, maxX, maxY uint64) (*actions.DepositResult, error)
	QuoteWithdraw(ctx context.Context, pool codec.Address, shares uint64) (*actions.WithdrawResult, error)
	QuoteSwap(ctx context.Context, pool codec.Address, isX bool, amountIn uint64) (*actions.SwapResult, error)
}
