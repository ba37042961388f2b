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

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	_ Action = (*Deposit)(nil)
	_ Result = (*DepositResult)(nil)
)

type DepositResult struct {
	AmountX uint64 `json:"amountX"`
	AmountY uint64 `json:"amountY"`
	Shares  uint64 `json:"shares"`
}

func (*DepositResult) GetTypeID() uint8 {
	return consts.DepositID
}

// Deposit mints [Shares] to the actor in exchange for a proportional
// amount of both reserves, never more than [MaxX] and [MaxY].
//
// The first deposit into a pool without shares takes [MaxX] and [MaxY]
// exactly and so sets the initial price.
type Deposit struct {
	Pool   codec.Address `json:"pool"`
	Shares uint64        `json:"shares"`
	MaxX   uint64        `json:"maxX"`
	MaxY   uint64        `json:"maxY"`
}

func (*Deposit) GetTypeID() uint8 {
	return consts.DepositID
}

func (d *Deposit) PoolAddress() codec.Address {
	return d.Pool
}

func (d *Deposit) StateKeys(actor codec.Address, p *storage.Pool) state.Keys {
	return poolKeys(d.Pool, p, actor)
}

func (d *Deposit) Execute(ctx context.Context, mu state.Mutable, l ledger.Ledger, actor codec.Address) (Result, error) {
	p, err := loadUnlockedPool(ctx, mu, d.Pool, actor)
	if err != nil {
		return nil, err
	}
	if d.Shares == 0 {
		return nil, fmt.Errorf("%w: shares", ErrZeroAmount)
	}
	ps, err := LoadPoolState(ctx, l, d.Pool, p)
	if err != nil {
		return nil, err
	}
	if ps.ShareSupply == 0 && (d.MaxX == 0 || d.MaxY == 0) {
		return nil, fmt.Errorf("%w: initial deposit needs both assets", ErrZeroAmount)
	}

	amountX, amountY, err := pricing.ProportionalDeposit(ps.ReserveX, ps.ReserveY, ps.ShareSupply, d.Shares, d.MaxX, d.MaxY)
	if err != nil {
		return nil, err
	}
	if amountX > d.MaxX || amountY > d.MaxY {
		return nil, fmt.Errorf(
			"%w: requires (%d, %d) but max is (%d, %d)",
			ErrSlippageExceeded, amountX, amountY, d.MaxX, d.MaxY,
		)
	}
	if _, err := smath.Add(ps.ShareSupply, d.Shares); err != nil {
		return nil, fmt.Errorf("%w: share supply overflows", pricing.ErrMath)
	}
	if _, err := smath.Add(ps.ReserveX, amountX); err != nil {
		return nil, fmt.Errorf("%w: reserve x overflows", pricing.ErrMath)
	}
	if _, err := smath.Add(ps.ReserveY, amountY); err != nil {
		return nil, fmt.Errorf("%w: reserve y overflows", pricing.ErrMath)
	}

	custody := storage.CustodyAddress(d.Pool)
	if err := l.Move(ctx, p.AssetX, actor, custody, amountX); err != nil {
		return nil, err
	}
	if err := l.Move(ctx, p.AssetY, actor, custody, amountY); err != nil {
		return nil, err
	}
	if err := l.Mint(ctx, storage.ShareAssetAddress(d.Pool), actor, d.Shares); err != nil {
		return nil, err
	}
	return &DepositResult{
		AmountX: amountX,
		AmountY: amountY,
		Shares:  d.Shares,
	}, nil
}
