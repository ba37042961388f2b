// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

var (
	_ Action = (*CreatePool)(nil)
	_ Result = (*CreatePoolResult)(nil)
)

type CreatePoolResult struct {
	Pool       codec.Address `json:"pool"`
	Custody    codec.Address `json:"custody"`
	ShareAsset codec.Address `json:"shareAsset"`
}

func (*CreatePoolResult) GetTypeID() uint8 {
	return consts.CreatePoolID
}

// CreatePool registers an empty, unlocked pool. Without an authority the
// pool can never be locked.
type CreatePool struct {
	AssetX       codec.Address `json:"assetX"`
	AssetY       codec.Address `json:"assetY"`
	Seed         uint64        `json:"seed"`
	FeeBps       uint16        `json:"feeBps"`
	HasAuthority bool          `json:"hasAuthority"`
	Authority    codec.Address `json:"authority"`
}

func (*CreatePool) GetTypeID() uint8 {
	return consts.CreatePoolID
}

func (c *CreatePool) PoolAddress() codec.Address {
	return storage.PoolAddress(c.AssetX, c.AssetY, c.Seed)
}

func (c *CreatePool) StateKeys(codec.Address, *storage.Pool) state.Keys {
	return state.Keys{
		string(storage.PoolKey(c.PoolAddress())): state.All,
	}
}

func (c *CreatePool) Execute(ctx context.Context, mu state.Mutable, _ ledger.Ledger, _ codec.Address) (Result, error) {
	if c.AssetX == c.AssetY {
		return nil, ErrIdenticalAssets
	}
	if c.FeeBps >= consts.BasisPoints {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, c.FeeBps)
	}
	pool := c.PoolAddress()
	exists, err := storage.PoolExists(ctx, mu, pool)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolExists, pool)
	}
	p := &storage.Pool{
		AssetX:       c.AssetX,
		AssetY:       c.AssetY,
		FeeBps:       c.FeeBps,
		Seed:         c.Seed,
		HasAuthority: c.HasAuthority,
	}
	if c.HasAuthority {
		p.Authority = c.Authority
	}
	if err := storage.SetPool(ctx, mu, pool, p); err != nil {
		return nil, err
	}
	return &CreatePoolResult{
		Pool:       pool,
		Custody:    storage.CustodyAddress(pool),
		ShareAsset: storage.ShareAssetAddress(pool),
	}, nil
}
