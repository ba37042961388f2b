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
	_ Action = (*Withdraw)(nil)
	_ Result = (*WithdrawResult)(nil)
)

type WithdrawResult struct {
	AmountX uint64 `json:"amountX"`
	AmountY uint64 `json:"amountY"`
	Shares  uint64 `json:"shares"`
}

func (*WithdrawResult) GetTypeID() uint8 {
	return consts.WithdrawID
}

// Withdraw burns [Shares] of the actor for a proportional amount of both
// reserves, no less than [MinX] and [MinY].
type Withdraw struct {
	Pool   codec.Address `json:"pool"`
	Shares uint64        `json:"shares"`
	MinX   uint64        `json:"minX"`
	MinY   uint64        `json:"minY"`
}

func (*Withdraw) GetTypeID() uint8 {
	return consts.WithdrawID
}

func (w *Withdraw) PoolAddress() codec.Address {
	return w.Pool
}

func (w *Withdraw) StateKeys(actor codec.Address, p *storage.Pool) state.Keys {
	return poolKeys(w.Pool, p, actor)
}

func (w *Withdraw) Execute(ctx context.Context, mu state.Mutable, l ledger.Ledger, actor codec.Address) (Result, error) {
	p, err := loadUnlockedPool(ctx, mu, w.Pool, actor)
	if err != nil {
		return nil, err
	}
	if w.Shares == 0 {
		return nil, fmt.Errorf("%w: shares", ErrZeroAmount)
	}
	ps, err := LoadPoolState(ctx, l, w.Pool, p)
	if err != nil {
		return nil, err
	}
	if ps.ShareSupply == 0 {
		return nil, pricing.ErrNoLiquidity
	}

	amountX, amountY, err := pricing.ProportionalWithdraw(ps.ReserveX, ps.ReserveY, ps.ShareSupply, w.Shares)
	if err != nil {
		return nil, err
	}
	if amountX < w.MinX || amountY < w.MinY {
		return nil, fmt.Errorf(
			"%w: returns (%d, %d) but min is (%d, %d)",
			ErrSlippageExceeded, amountX, amountY, w.MinX, w.MinY,
		)
	}

	custody := storage.CustodyAddress(w.Pool)
	if err := l.Move(ctx, p.AssetX, custody, actor, amountX); err != nil {
		return nil, err
	}
	if err := l.Move(ctx, p.AssetY, custody, actor, amountY); err != nil {
		return nil, err
	}
	if err := l.Burn(ctx, storage.ShareAssetAddress(w.Pool), actor, w.Shares); err != nil {
		return nil, err
	}
	return &WithdrawResult{
		AmountX: amountX,
		AmountY: amountY,
		Shares:  w.Shares,
	}, nil
}
