// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/pricing"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

// PoolInfo is a pool record together with its live balances.
type PoolInfo struct {
	Address    codec.Address `json:"address"`
	Custody    codec.Address `json:"custody"`
	ShareAsset codec.Address `json:"shareAsset"`

	storage.Pool
	actions.PoolState
}

// Pool returns a consistent snapshot of [pool].
func (c *Controller) Pool(ctx context.Context, pool codec.Address) (*PoolInfo, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Pool", oteltrace.WithAttributes(
		attribute.Stringer("pool", pool),
	))
	defer span.End()

	p, err := c.readPool(pool)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", actions.ErrPoolDoesNotExist, pool)
	}

	var (
		custody    = storage.CustodyAddress(pool)
		shareAsset = storage.ShareAssetAddress(pool)
		keys       = state.Keys{
			string(storage.PoolKey(pool)):                 state.Read,
			string(storage.BalanceKey(p.AssetX, custody)): state.Read,
			string(storage.BalanceKey(p.AssetY, custody)): state.Read,
			string(storage.SupplyKey(shareAsset)):         state.Read,
		}
	)
	release := c.locks.Acquire(keys)
	defer release()

	_, view, err := c.newView(ctx, keys)
	if err != nil {
		return nil, err
	}
	// the lock flag may have changed since the unlocked read
	p, err = storage.GetPool(ctx, view, pool)
	if err != nil {
		return nil, err
	}
	ps, err := actions.LoadPoolState(ctx, ledger.NewStateLedger(view), pool, p)
	if err != nil {
		return nil, err
	}
	return &PoolInfo{
		Address:    pool,
		Custody:    custody,
		ShareAsset: shareAsset,
		Pool:       *p,
		PoolState:  *ps,
	}, nil
}

// Balance returns the balance of [asset] held by [account].
func (c *Controller) Balance(ctx context.Context, asset codec.Address, account codec.Address) (uint64, error) {
	key := storage.BalanceKey(asset, account)
	release := c.locks.Acquire(state.Keys{string(key): state.Read})
	defer release()

	return storage.GetBalance(ctx, &dbReader{c.db}, asset, account)
}

// Pools lists every stored pool.
func (c *Controller) Pools(context.Context) ([]codec.Address, error) {
	return storage.Pools(c.db)
}

// QuoteDeposit returns the amounts a deposit of [shares] would take right
// now. Nothing is moved.
func (c *Controller) QuoteDeposit(ctx context.Context, pool codec.Address, shares, maxX, maxY uint64) (*actions.DepositResult, error) {
	info, err := c.quotablePool(ctx, pool)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, fmt.Errorf("%w: shares", actions.ErrZeroAmount)
	}
	if info.ShareSupply == 0 && (maxX == 0 || maxY == 0) {
		return nil, fmt.Errorf("%w: initial deposit needs both assets", actions.ErrZeroAmount)
	}
	x, y, err := pricing.NewConstantProduct(info.ReserveX, info.ReserveY, info.ShareSupply, info.FeeBps).Deposit(shares, maxX, maxY)
	if err != nil {
		return nil, err
	}
	if x > maxX || y > maxY {
		return nil, fmt.Errorf(
			"%w: requires (%d, %d) but max is (%d, %d)",
			actions.ErrSlippageExceeded, x, y, maxX, maxY,
		)
	}
	return &actions.DepositResult{AmountX: x, AmountY: y, Shares: shares}, nil
}

// QuoteWithdraw returns the amounts burning [shares] would release right
// now.
func (c *Controller) QuoteWithdraw(ctx context.Context, pool codec.Address, shares uint64) (*actions.WithdrawResult, error) {
	info, err := c.quotablePool(ctx, pool)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, fmt.Errorf("%w: shares", actions.ErrZeroAmount)
	}
	x, y, err := pricing.NewConstantProduct(info.ReserveX, info.ReserveY, info.ShareSupply, info.FeeBps).Withdraw(shares)
	if err != nil {
		return nil, err
	}
	return &actions.WithdrawResult{AmountX: x, AmountY: y, Shares: shares}, nil
}

// QuoteSwap returns what selling [amountIn] would return right now.
func (c *Controller) QuoteSwap(ctx context.Context, pool codec.Address, isX bool, amountIn uint64) (*actions.SwapResult, error) {
	info, err := c.quotablePool(ctx, pool)
	if err != nil {
		return nil, err
	}
	if amountIn == 0 {
		return nil, fmt.Errorf("%w: amount in", actions.ErrZeroAmount)
	}
	if info.ShareSupply == 0 {
		return nil, pricing.ErrNoLiquidity
	}
	out, err := pricing.NewConstantProduct(info.ReserveX, info.ReserveY, info.ShareSupply, info.FeeBps).Swap(isX, amountIn)
	if err != nil {
		return nil, err
	}
	assetIn, assetOut := info.AssetY, info.AssetX
	if isX {
		assetIn, assetOut = info.AssetX, info.AssetY
	}
	return &actions.SwapResult{
		AmountIn:  amountIn,
		AmountOut: out,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
	}, nil
}

func (c *Controller) quotablePool(ctx context.Context, pool codec.Address) (*PoolInfo, error) {
	info, err := c.Pool(ctx, pool)
	if err != nil {
		return nil, err
	}
	if info.Locked {
		return nil, fmt.Errorf("%w: %s", actions.ErrPoolLocked, pool)
	}
	return info, nil
}

// HasState returns true if any pool or balance has been stored.
func (c *Controller) HasState() (bool, error) {
	it := c.db.NewIterator()
	defer it.Release()

	if it.Next() {
		return true, nil
	}
	return false, it.Error()
}
