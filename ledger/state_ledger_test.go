// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/statetest"
	"github.com/ava-labs/cpamm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func TestMove(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	l := NewStateLedger(mu)

	var (
		asset = codectest.NewRandomAsset()
		alice = codectest.NewRandomAddress()
		bob   = codectest.NewRandomAddress()
	)
	require.NoError(storage.SetBalance(ctx, mu, asset, alice, 100))

	require.NoError(l.Move(ctx, asset, alice, bob, 40))
	bal, err := l.Balance(ctx, asset, alice)
	require.NoError(err)
	require.Equal(uint64(60), bal)
	bal, err = l.Balance(ctx, asset, bob)
	require.NoError(err)
	require.Equal(uint64(40), bal)

	err = l.Move(ctx, asset, alice, bob, 61)
	require.ErrorIs(err, ErrLedger)
	require.ErrorIs(err, storage.ErrInsufficientBalance)

	require.NoError(l.Move(ctx, asset, alice, bob, 0))
	bal, err = l.Balance(ctx, asset, alice)
	require.NoError(err)
	require.Equal(uint64(60), bal)
}

func TestMoveToSelf(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	l := NewStateLedger(mu)

	var (
		asset = codectest.NewRandomAsset()
		alice = codectest.NewRandomAddress()
	)
	require.NoError(storage.SetBalance(ctx, mu, asset, alice, 100))

	for _, amount := range []uint64{0, 50, 1_000} {
		err := l.Move(ctx, asset, alice, alice, amount)
		require.ErrorIs(err, ErrLedger)
		require.ErrorIs(err, ErrSelfMove)
	}
	bal, err := l.Balance(ctx, asset, alice)
	require.NoError(err)
	require.Equal(uint64(100), bal)
}

func TestMoveOverflowLeavesSender(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	l := NewStateLedger(mu)

	var (
		asset = codectest.NewRandomAsset()
		alice = codectest.NewRandomAddress()
		bob   = codectest.NewRandomAddress()
	)
	require.NoError(storage.SetBalance(ctx, mu, asset, alice, 10))
	require.NoError(storage.SetBalance(ctx, mu, asset, bob, math.MaxUint64))

	err := l.Move(ctx, asset, alice, bob, 1)
	require.ErrorIs(err, ErrLedger)
	require.ErrorIs(err, smath.ErrOverflow)

	bal, err := l.Balance(ctx, asset, alice)
	require.NoError(err)
	require.Equal(uint64(10), bal)
}

func TestMintBurn(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	l := NewStateLedger(mu)

	var (
		share = codectest.NewRandomAsset()
		alice = codectest.NewRandomAddress()
		bob   = codectest.NewRandomAddress()
	)
	require.NoError(l.Mint(ctx, share, alice, 70))
	require.NoError(l.Mint(ctx, share, bob, 30))
	supply, err := l.Supply(ctx, share)
	require.NoError(err)
	require.Equal(uint64(100), supply)

	err = l.Burn(ctx, share, bob, 31)
	require.ErrorIs(err, ErrLedger)
	require.ErrorIs(err, storage.ErrInsufficientBalance)

	require.NoError(l.Burn(ctx, share, bob, 30))
	supply, err = l.Supply(ctx, share)
	require.NoError(err)
	require.Equal(uint64(70), supply)

	err = l.Mint(ctx, share, bob, math.MaxUint64)
	require.ErrorIs(err, smath.ErrOverflow)
	supply, err = l.Supply(ctx, share)
	require.NoError(err)
	require.Equal(uint64(70), supply)

	require.NoError(l.Burn(ctx, share, alice, 70))
	require.Empty(mu.Storage)
}
