// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/keys"
	"github.com/ava-labs/cpamm/pebble"
	"github.com/ava-labs/cpamm/statetest"
)

func TestPoolCodec(t *testing.T) {
	require := require.New(t)

	p := &Pool{
		AssetX:       codectest.NewRandomAsset(),
		AssetY:       codectest.NewRandomAsset(),
		FeeBps:       30,
		Seed:         7,
		HasAuthority: true,
		Authority:    codectest.NewRandomAddress(),
		Locked:       true,
	}
	b := p.Marshal()
	require.Len(b, poolSize)
	require.True(keys.VerifyValue(PoolKey(codec.EmptyAddress), b))

	parsed, err := UnmarshalPool(b)
	require.NoError(err)
	require.Equal(p, parsed)

	_, err = UnmarshalPool(b[1:])
	require.ErrorIs(err, ErrInvalidPool)
}

func TestPoolAddresses(t *testing.T) {
	require := require.New(t)

	x := codectest.NewRandomAsset()
	y := codectest.NewRandomAsset()

	pool := PoolAddress(x, y, 0)
	require.Equal(consts.PoolID, pool.TypeID())
	require.Equal(pool, PoolAddress(x, y, 0))
	require.NotEqual(pool, PoolAddress(x, y, 1))
	require.NotEqual(pool, PoolAddress(y, x, 0))

	custody := CustodyAddress(pool)
	share := ShareAssetAddress(pool)
	require.Equal(consts.CustodyID, custody.TypeID())
	require.Equal(consts.ShareAssetID, share.TypeID())
	require.Equal(custody[1:], share[1:])
}

func TestGetSetPool(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	pool := codectest.NewRandomAddress()
	_, err := GetPool(ctx, mu, pool)
	require.ErrorIs(err, database.ErrNotFound)
	exists, err := PoolExists(ctx, mu, pool)
	require.NoError(err)
	require.False(exists)

	p := &Pool{AssetX: codectest.NewRandomAsset(), AssetY: codectest.NewRandomAsset(), FeeBps: 25}
	require.NoError(SetPool(ctx, mu, pool, p))

	got, err := GetPool(ctx, mu, pool)
	require.NoError(err)
	require.Equal(p, got)
	exists, err = PoolExists(ctx, mu, pool)
	require.NoError(err)
	require.True(exists)
}

func TestBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	asset := codectest.NewRandomAsset()
	account := codectest.NewRandomAddress()

	bal, err := GetBalance(ctx, mu, asset, account)
	require.NoError(err)
	require.Zero(bal)

	bal, err = AddBalance(ctx, mu, asset, account, 100)
	require.NoError(err)
	require.Equal(uint64(100), bal)

	_, err = SubBalance(ctx, mu, asset, account, 101)
	require.ErrorIs(err, ErrInsufficientBalance)

	_, err = AddBalance(ctx, mu, asset, account, math.MaxUint64)
	require.Error(err)

	bal, err = SubBalance(ctx, mu, asset, account, 100)
	require.NoError(err)
	require.Zero(bal)
	require.Empty(mu.Storage)
}

func TestSupply(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	asset := codectest.NewRandomAsset()

	require.NoError(SetSupply(ctx, mu, asset, 42))
	supply, err := GetSupply(ctx, mu, asset)
	require.NoError(err)
	require.Equal(uint64(42), supply)

	mu.Storage[string(SupplyKey(asset))] = []byte{1}
	_, err = GetSupply(ctx, mu, asset)
	require.ErrorIs(err, ErrInvalidValue)
}

func TestPoolKeys(t *testing.T) {
	require := require.New(t)

	pool := codectest.NewRandomAddress()
	actor := codectest.NewRandomAddress()
	p := &Pool{AssetX: codectest.NewRandomAsset(), AssetY: codectest.NewRandomAsset()}

	ks := PoolKeys(pool, p, actor)
	require.Len(ks, 7)
	require.False(ks[string(PoolKey(pool))].Mutates())
	require.True(ks[string(SupplyKey(ShareAssetAddress(pool)))].Mutates())
}

func TestPools(t *testing.T) {
	require := require.New(t)
	db := memdb.New()

	var created []codec.Address
	for i := uint64(0); i < 3; i++ {
		pool := PoolAddress(codectest.NewRandomAsset(), codectest.NewRandomAsset(), i)
		require.NoError(db.Put(PoolKey(pool), (&Pool{Seed: i}).Marshal()))
		created = append(created, pool)
	}
	require.NoError(db.Put(SupplyKey(codectest.NewRandomAsset()), []byte{0, 0, 0, 0, 0, 0, 0, 1}))

	pools, err := Pools(db)
	require.NoError(err)
	require.ElementsMatch(created, pools)
}

func TestNew(t *testing.T) {
	require := require.New(t)

	db, err := New(pebble.NewDefaultConfig(), "", "state", metrics.NewPrefixGatherer())
	require.NoError(err)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	db, err = New(pebble.NewDefaultConfig(), t.TempDir(), "state", metrics.NewPrefixGatherer())
	require.NoError(err)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)
	require.NoError(db.Close())
}
