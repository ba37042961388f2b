// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/pricing"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

var (
	_ Action = (*Swap)(nil)
	_ Result = (*SwapResult)(nil)
)

type SwapResult struct {
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
	AssetIn   codec.Address `json:"assetIn"`
	AssetOut  codec.Address `json:"assetOut"`
}

func (*SwapResult) GetTypeID() uint8 {
	return consts.SwapID
}

// Swap sells [AmountIn] of asset X (IsX) or Y for at least [MinOut] of the
// other asset.
type Swap struct {
	Pool     codec.Address `json:"pool"`
	IsX      bool          `json:"isX"`
	AmountIn uint64        `json:"amountIn"`
	MinOut   uint64        `json:"minOut"`
}

func (*Swap) GetTypeID() uint8 {
	return consts.SwapID
}

func (s *Swap) PoolAddress() codec.Address {
	return s.Pool
}

func (s *Swap) StateKeys(actor codec.Address, p *storage.Pool) state.Keys {
	return poolKeys(s.Pool, p, actor)
}

func (s *Swap) Execute(ctx context.Context, mu state.Mutable, l ledger.Ledger, actor codec.Address) (Result, error) {
	p, err := loadUnlockedPool(ctx, mu, s.Pool, actor)
	if err != nil {
		return nil, err
	}
	if s.AmountIn == 0 {
		return nil, fmt.Errorf("%w: amount in", ErrZeroAmount)
	}
	ps, err := LoadPoolState(ctx, l, s.Pool, p)
	if err != nil {
		return nil, err
	}
	if ps.ShareSupply == 0 {
		return nil, pricing.ErrNoLiquidity
	}

	var (
		assetIn, assetOut     = p.AssetY, p.AssetX
		reserveIn, reserveOut = ps.ReserveY, ps.ReserveX
	)
	if s.IsX {
		assetIn, assetOut = p.AssetX, p.AssetY
		reserveIn, reserveOut = ps.ReserveX, ps.ReserveY
	}
	amountOut, err := pricing.SwapAmountOut(reserveIn, reserveOut, p.FeeBps, s.AmountIn)
	if err != nil {
		return nil, err
	}
	if amountOut < s.MinOut {
		return nil, fmt.Errorf("%w: returns %d but min is %d", ErrSlippageExceeded, amountOut, s.MinOut)
	}

	custody := storage.CustodyAddress(s.Pool)
	if err := l.Move(ctx, assetIn, actor, custody, s.AmountIn); err != nil {
		return nil, err
	}
	if err := l.Move(ctx, assetOut, custody, actor, amountOut); err != nil {
		return nil, err
	}
	return &SwapResult{
		AmountIn:  s.AmountIn,
		AmountOut: amountOut,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
	}, nil
}
