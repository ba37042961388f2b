// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

var (
	_ Action = (*SetLock)(nil)
	_ Result = (*SetLockResult)(nil)
)

type SetLockResult struct {
	Locked bool `json:"locked"`
}

func (*SetLockResult) GetTypeID() uint8 {
	return consts.SetLockID
}

// SetLock locks or unlocks a pool. Only the pool authority may do so.
type SetLock struct {
	Pool   codec.Address `json:"pool"`
	Locked bool          `json:"locked"`
}

func (*SetLock) GetTypeID() uint8 {
	return consts.SetLockID
}

func (s *SetLock) PoolAddress() codec.Address {
	return s.Pool
}

func (s *SetLock) StateKeys(codec.Address, *storage.Pool) state.Keys {
	return state.Keys{
		string(storage.PoolKey(s.Pool)): state.Write,
	}
}

func (s *SetLock) Execute(ctx context.Context, mu state.Mutable, _ ledger.Ledger, actor codec.Address) (Result, error) {
	p, err := loadPool(ctx, mu, s.Pool)
	if err != nil {
		return nil, err
	}
	if !p.HasAuthority {
		return nil, ErrUnmanagedPool
	}
	if p.Authority != actor {
		return nil, ErrNotAuthority
	}
	if p.Locked != s.Locked {
		p.Locked = s.Locked
		if err := storage.SetPool(ctx, mu, s.Pool, p); err != nil {
			return nil, err
		}
	}
	return &SetLockResult{Locked: p.Locked}, nil
}
