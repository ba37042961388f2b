// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package actions implements the operations that can be applied to a pool.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

// Result is the typed outcome of a successful [Action].
type Result interface {
	GetTypeID() uint8
}

// Action is a single operation on one pool.
//
// [StateKeys] must list every key [Execute] touches, given the pool record
// read before execution ([pool] is nil if the pool does not exist yet).
// [Execute] reads the pool record from [mu] and moves balances only
// through [l]. It does not undo partial effects on failure: the caller
// runs it on a revertible view.
type Action interface {
	GetTypeID() uint8
	PoolAddress() codec.Address
	StateKeys(actor codec.Address, pool *storage.Pool) state.Keys
	Execute(ctx context.Context, mu state.Mutable, l ledger.Ledger, actor codec.Address) (Result, error)
}

// PoolState is a consistent snapshot of a pool's live balances.
type PoolState struct {
	ReserveX    uint64 `json:"reserveX"`
	ReserveY    uint64 `json:"reserveY"`
	ShareSupply uint64 `json:"shareSupply"`
}

// LoadPoolState reads the reserves of [pool] from its custody balances and
// its share supply from the share ledger.
func LoadPoolState(ctx context.Context, l ledger.Ledger, pool codec.Address, p *storage.Pool) (*PoolState, error) {
	custody := storage.CustodyAddress(pool)
	reserveX, err := l.Balance(ctx, p.AssetX, custody)
	if err != nil {
		return nil, err
	}
	reserveY, err := l.Balance(ctx, p.AssetY, custody)
	if err != nil {
		return nil, err
	}
	supply, err := l.Supply(ctx, storage.ShareAssetAddress(pool))
	if err != nil {
		return nil, err
	}
	return &PoolState{ReserveX: reserveX, ReserveY: reserveY, ShareSupply: supply}, nil
}

// loadUnlockedPool returns the record of [pool] if it exists and accepts
// trades from [actor]. The pool's own custody account can never trade
// with the pool.
func loadUnlockedPool(ctx context.Context, im state.Immutable, pool codec.Address, actor codec.Address) (*storage.Pool, error) {
	if actor == storage.CustodyAddress(pool) {
		return nil, fmt.Errorf("%w: %s", ErrCustodyActor, actor)
	}
	p, err := loadPool(ctx, im, pool)
	if err != nil {
		return nil, err
	}
	if p.Locked {
		return nil, fmt.Errorf("%w: %s", ErrPoolLocked, pool)
	}
	return p, nil
}

func loadPool(ctx context.Context, im state.Immutable, pool codec.Address) (*storage.Pool, error) {
	p, err := storage.GetPool(ctx, im, pool)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolDoesNotExist, pool)
	}
	return p, err
}

// poolKeys are the keys of an action on a pool that may not exist.
func poolKeys(pool codec.Address, p *storage.Pool, actor codec.Address) state.Keys {
	if p == nil {
		return state.Keys{string(storage.PoolKey(pool)): state.Read}
	}
	return storage.PoolKeys(pool, p, actor)
}
