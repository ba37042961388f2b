// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/pricing"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/statetest"
	"github.com/ava-labs/cpamm/storage"
)

func TestDepositVirginPool(t *testing.T) {
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	actor := codectest.NewRandomAddress()
	tp := newTestPool(t, mu, 30, 0, 0, 0, actor)
	tp.fund(t, mu, actor, 5_000, 5_000)

	test := ActionTest{
		Name: "first deposit takes maximums",
		Action: &Deposit{
			Pool:   tp.addr,
			Shares: 7,
			MaxX:   1000,
			MaxY:   2000,
		},
		State: mu,
		Actor: actor,
		ExpectedResult: &DepositResult{
			AmountX: 1000,
			AmountY: 2000,
			Shares:  7,
		},
		Assertion: func(_ context.Context, t *testing.T, mu state.Mutable) {
			require := require.New(t)
			require.Equal(&PoolState{ReserveX: 1000, ReserveY: 2000, ShareSupply: 7}, tp.state(t, mu))
			require.Equal(uint64(4000), balance(t, mu, tp.record.AssetX, actor))
			require.Equal(uint64(3000), balance(t, mu, tp.record.AssetY, actor))
			require.Equal(uint64(7), balance(t, mu, tp.shareAsset, actor))
		},
	}
	test.Run(ctx, t)
}

func TestDepositSlippageBoundary(t *testing.T) {
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	actor := codectest.NewRandomAddress()
	tp := newTestPool(t, mu, 30, 1_000_001, 999_999, 999_999, codectest.NewRandomAddress())
	tp.fund(t, mu, actor, 1_000, 1_000)

	tests := []ActionTest{
		{
			Name: "one unit below required x",
			Action: &Deposit{
				Pool:   tp.addr,
				Shares: 333,
				MaxX:   333,
				MaxY:   333,
			},
			ExpectedErr: ErrSlippageExceeded,
		},
		{
			Name: "one unit below required y",
			Action: &Deposit{
				Pool:   tp.addr,
				Shares: 333,
				MaxX:   334,
				MaxY:   332,
			},
			ExpectedErr: ErrSlippageExceeded,
		},
		{
			Name: "exact maximums",
			Action: &Deposit{
				Pool:   tp.addr,
				Shares: 333,
				MaxX:   334,
				MaxY:   333,
			},
			ExpectedResult: &DepositResult{
				AmountX: 334,
				AmountY: 333,
				Shares:  333,
			},
			Assertion: func(_ context.Context, t *testing.T, mu state.Mutable) {
				require.Equal(t, &PoolState{
					ReserveX:    1_000_335,
					ReserveY:    1_000_332,
					ShareSupply: 1_000_332,
				}, tp.state(t, mu))
			},
		},
	}
	for _, test := range tests {
		test.State = mu
		test.Actor = actor
		test.Run(ctx, t)
	}
}

func TestDepositErrors(t *testing.T) {
	ctx := context.Background()
	actor := codectest.NewRandomAddress()

	tests := []struct {
		name   string
		setup  func(*testPool, state.Mutable)
		action func(*testPool) *Deposit
		err    error
	}{
		{
			name: "pool does not exist",
			action: func(*testPool) *Deposit {
				return &Deposit{Pool: codectest.NewRandomAddress(), Shares: 1, MaxX: 1, MaxY: 1}
			},
			err: ErrPoolDoesNotExist,
		},
		{
			name: "locked",
			setup: func(tp *testPool, mu state.Mutable) {
				tp.lock(t, mu)
			},
			action: func(tp *testPool) *Deposit {
				return &Deposit{Pool: tp.addr, Shares: 1, MaxX: math.MaxUint64, MaxY: math.MaxUint64}
			},
			err: ErrPoolLocked,
		},
		{
			name: "zero shares",
			action: func(tp *testPool) *Deposit {
				return &Deposit{Pool: tp.addr, MaxX: 10, MaxY: 10}
			},
			err: ErrZeroAmount,
		},
		{
			name: "insufficient balance",
			action: func(tp *testPool) *Deposit {
				return &Deposit{Pool: tp.addr, Shares: 1_000, MaxX: math.MaxUint64, MaxY: math.MaxUint64}
			},
			err: ledger.ErrLedger,
		},
		{
			name: "supply overflows",
			setup: func(tp *testPool, mu state.Mutable) {
				require.NoError(t, storage.SetSupply(ctx, mu, tp.shareAsset, math.MaxUint64))
				require.NoError(t, storage.SetBalance(ctx, mu, tp.record.AssetX, tp.custody, math.MaxUint64))
				require.NoError(t, storage.SetBalance(ctx, mu, tp.record.AssetY, tp.custody, math.MaxUint64))
			},
			action: func(tp *testPool) *Deposit {
				return &Deposit{Pool: tp.addr, Shares: 1, MaxX: math.MaxUint64, MaxY: math.MaxUint64}
			},
			err: pricing.ErrMath,
		},
		{
			name: "reserve overflows",
			setup: func(tp *testPool, mu state.Mutable) {
				require.NoError(t, storage.SetBalance(ctx, mu, tp.record.AssetX, tp.custody, math.MaxUint64-1))
			},
			action: func(tp *testPool) *Deposit {
				// ceil(50 * (2^64-2) / 100) fits but the new reserve does not
				return &Deposit{Pool: tp.addr, Shares: 50, MaxX: math.MaxUint64, MaxY: math.MaxUint64}
			},
			err: pricing.ErrMath,
		},
	}

	for _, tt := range tests {
		mu := statetest.NewInMemoryStore()
		tp := newTestPool(t, mu, 30, 100, 200, 100, codectest.NewRandomAddress())
		tp.fund(t, mu, actor, 10, 10)
		if tt.setup != nil {
			tt.setup(tp, mu)
		}
		test := ActionTest{
			Name:        tt.name,
			Action:      tt.action(tp),
			State:       mu,
			Actor:       actor,
			ExpectedErr: tt.err,
		}
		test.Run(ctx, t)
	}
}

func TestDepositVirginRequiresBothAssets(t *testing.T) {
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	actor := codectest.NewRandomAddress()
	tp := newTestPool(t, mu, 30, 0, 0, 0, actor)
	tp.fund(t, mu, actor, 5_000, 5_000)

	test := ActionTest{
		Name: "zero y",
		Action: &Deposit{
			Pool:   tp.addr,
			Shares: 1,
			MaxX:   1000,
		},
		State:       mu,
		Actor:       actor,
		ExpectedErr: ErrZeroAmount,
	}
	test.Run(ctx, t)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	l := ledger.NewStateLedger(mu)
	actor := codectest.NewRandomAddress()
	tp := newTestPool(t, mu, 30, 1_000_003, 2_000_011, 999_983, codectest.NewRandomAddress())
	tp.fund(t, mu, actor, 1_000_000, 1_000_000)
	before := tp.state(t, mu)

	dr, err := (&Deposit{Pool: tp.addr, Shares: 12_345, MaxX: math.MaxUint64, MaxY: math.MaxUint64}).Execute(ctx, mu, l, actor)
	require.NoError(err)
	deposit := dr.(*DepositResult)

	wr, err := (&Withdraw{Pool: tp.addr, Shares: 12_345}).Execute(ctx, mu, l, actor)
	require.NoError(err)
	withdraw := wr.(*WithdrawResult)

	require.LessOrEqual(withdraw.AmountX, deposit.AmountX)
	require.LessOrEqual(withdraw.AmountY, deposit.AmountY)

	after := tp.state(t, mu)
	require.Equal(before.ShareSupply, after.ShareSupply)
	require.GreaterOrEqual(after.ReserveX, before.ReserveX)
	require.GreaterOrEqual(after.ReserveY, before.ReserveY)
	require.Zero(balance(t, mu, tp.shareAsset, actor))
}
