// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/pricing"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/statetest"
)

func TestSwapScenario(t *testing.T) {
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	actor := codectest.NewRandomAddress()
	tp := newTestPool(t, mu, 30, 1_000_000, 2_000_000, 1_000_000, codectest.NewRandomAddress())
	tp.fund(t, mu, actor, 10_000, 0)
	invariant := pricing.Invariant(1_000_000, 2_000_000)

	tests := []ActionTest{
		{
			Name:        "min out not met",
			Action:      &Swap{Pool: tp.addr, IsX: true, AmountIn: 10_000, MinOut: 19_744},
			ExpectedErr: ErrSlippageExceeded,
		},
		{
			Name:        "insufficient input",
			Action:      &Swap{Pool: tp.addr, IsX: false, AmountIn: 10_000},
			ExpectedErr: ledger.ErrLedger,
		},
		{
			Name:   "x for y",
			Action: &Swap{Pool: tp.addr, IsX: true, AmountIn: 10_000, MinOut: 19_743},
			ExpectedResult: &SwapResult{
				AmountIn:  10_000,
				AmountOut: 19_743,
				AssetIn:   tp.record.AssetX,
				AssetOut:  tp.record.AssetY,
			},
			Assertion: func(_ context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				ps := tp.state(t, mu)
				require.Equal(&PoolState{
					ReserveX:    1_010_000,
					ReserveY:    1_980_257,
					ShareSupply: 1_000_000,
				}, ps)
				require.False(pricing.Invariant(ps.ReserveX, ps.ReserveY).Lt(invariant))
				require.Zero(balance(t, mu, tp.record.AssetX, actor))
				require.Equal(uint64(19_743), balance(t, mu, tp.record.AssetY, actor))
			},
		},
		{
			Name:   "y for x",
			Action: &Swap{Pool: tp.addr, IsX: false, AmountIn: 19_743},
			Assertion: func(_ context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				ps := tp.state(t, mu)
				require.Less(ps.ReserveX, uint64(1_010_000))
				require.Greater(ps.ReserveX, uint64(1_000_000))
				require.Equal(uint64(2_000_000), ps.ReserveY)
				require.False(pricing.Invariant(ps.ReserveX, ps.ReserveY).Lt(invariant))
			},
		},
	}
	for _, test := range tests {
		test.State = mu
		test.Actor = actor
		test.Run(ctx, t)
	}
}

func TestSwapErrors(t *testing.T) {
	ctx := context.Background()
	actor := codectest.NewRandomAddress()

	tests := []struct {
		name     string
		reserves [3]uint64
		locked   bool
		action   func(*testPool) *Swap
		err      error
	}{
		{
			name:     "zero amount",
			reserves: [3]uint64{100, 100, 100},
			action: func(tp *testPool) *Swap {
				return &Swap{Pool: tp.addr, IsX: true}
			},
			err: ErrZeroAmount,
		},
		{
			name: "virgin pool",
			action: func(tp *testPool) *Swap {
				return &Swap{Pool: tp.addr, IsX: true, AmountIn: 10}
			},
			err: pricing.ErrNoLiquidity,
		},
		{
			name:     "empty output reserve",
			reserves: [3]uint64{100, 0, 100},
			action: func(tp *testPool) *Swap {
				return &Swap{Pool: tp.addr, IsX: true, AmountIn: 10}
			},
			err: pricing.ErrNoLiquidity,
		},
		{
			name:     "fee consumes input",
			reserves: [3]uint64{100, 100, 100},
			action: func(tp *testPool) *Swap {
				return &Swap{Pool: tp.addr, IsX: true, AmountIn: 1}
			},
			err: pricing.ErrMath,
		},
		{
			name:     "locked",
			reserves: [3]uint64{100, 100, 100},
			locked:   true,
			action: func(tp *testPool) *Swap {
				return &Swap{Pool: tp.addr, IsX: true, AmountIn: 10}
			},
			err: ErrPoolLocked,
		},
		{
			name: "pool does not exist",
			action: func(*testPool) *Swap {
				return &Swap{Pool: codectest.NewRandomAddress(), AmountIn: 10}
			},
			err: ErrPoolDoesNotExist,
		},
	}

	for _, tt := range tests {
		mu := statetest.NewInMemoryStore()
		tp := newTestPool(t, mu, 30, tt.reserves[0], tt.reserves[1], tt.reserves[2], codectest.NewRandomAddress())
		tp.fund(t, mu, actor, 100, 100)
		if tt.locked {
			tp.lock(t, mu)
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
