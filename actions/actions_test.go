// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/statetest"
	"github.com/ava-labs/cpamm/storage"
)

// ActionTest is a single parameterized test. It calls Execute on the action
// and checks the result, the error and, on failure, that nothing changed.
type ActionTest struct {
	Name string

	Action Action
	State  *statetest.InMemoryStore
	Actor  codec.Address

	ExpectedResult Result
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		before := test.State.Clone()
		result, err := test.Action.Execute(ctx, test.State, ledger.NewStateLedger(test.State), test.Actor)

		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedErr != nil {
			require.Nil(result)
			require.Equal(before.Storage, test.State.Storage)
			return
		}
		if test.ExpectedResult != nil {
			require.Equal(test.ExpectedResult, result)
		}
		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

type testPool struct {
	addr       codec.Address
	record     *storage.Pool
	custody    codec.Address
	shareAsset codec.Address
}

// newTestPool stores a pool with the given live state. [supply] shares are
// all held by [holder].
func newTestPool(
	t *testing.T,
	mu state.Mutable,
	feeBps uint16,
	reserveX uint64,
	reserveY uint64,
	supply uint64,
	holder codec.Address,
) *testPool {
	require := require.New(t)
	ctx := context.Background()

	p := &storage.Pool{
		AssetX: codectest.NewRandomAsset(),
		AssetY: codectest.NewRandomAsset(),
		FeeBps: feeBps,
	}
	addr := storage.PoolAddress(p.AssetX, p.AssetY, 0)
	tp := &testPool{
		addr:       addr,
		record:     p,
		custody:    storage.CustodyAddress(addr),
		shareAsset: storage.ShareAssetAddress(addr),
	}
	require.NoError(storage.SetPool(ctx, mu, addr, p))
	require.NoError(storage.SetBalance(ctx, mu, p.AssetX, tp.custody, reserveX))
	require.NoError(storage.SetBalance(ctx, mu, p.AssetY, tp.custody, reserveY))
	require.NoError(storage.SetSupply(ctx, mu, tp.shareAsset, supply))
	require.NoError(storage.SetBalance(ctx, mu, tp.shareAsset, holder, supply))
	return tp
}

func (tp *testPool) fund(t *testing.T, mu state.Mutable, account codec.Address, x, y uint64) {
	ctx := context.Background()
	require.NoError(t, storage.SetBalance(ctx, mu, tp.record.AssetX, account, x))
	require.NoError(t, storage.SetBalance(ctx, mu, tp.record.AssetY, account, y))
}

func (tp *testPool) lock(t *testing.T, mu state.Mutable) {
	tp.record.Locked = true
	require.NoError(t, storage.SetPool(context.Background(), mu, tp.addr, tp.record))
}

func (tp *testPool) state(t *testing.T, mu state.Mutable) *PoolState {
	ps, err := LoadPoolState(context.Background(), ledger.NewStateLedger(mu), tp.addr, tp.record)
	require.NoError(t, err)
	return ps
}

func balance(t *testing.T, mu state.Immutable, asset codec.Address, account codec.Address) uint64 {
	bal, err := storage.GetBalance(context.Background(), mu, asset, account)
	require.NoError(t, err)
	return bal
}
