// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/keys"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/utils"
)

const poolSize = codec.AddressLen*3 + consts.Uint16Len + consts.Uint64Len + consts.BoolLen*2

// Pool is the persisted configuration of a pool. Reserves and share supply
// are not stored here: they are the live custody balances and the supply
// of the share asset.
type Pool struct {
	AssetX       codec.Address `json:"assetX"`
	AssetY       codec.Address `json:"assetY"`
	FeeBps       uint16        `json:"feeBps"`
	Seed         uint64        `json:"seed"`
	HasAuthority bool          `json:"hasAuthority"`
	Authority    codec.Address `json:"authority"`
	Locked       bool          `json:"locked"`
}

func (p *Pool) Marshal() []byte {
	v := make([]byte, 0, poolSize)
	v = append(v, p.AssetX[:]...)
	v = append(v, p.AssetY[:]...)
	v = binary.BigEndian.AppendUint16(v, p.FeeBps)
	v = binary.BigEndian.AppendUint64(v, p.Seed)
	v = appendBool(v, p.HasAuthority)
	v = append(v, p.Authority[:]...)
	return appendBool(v, p.Locked)
}

func UnmarshalPool(v []byte) (*Pool, error) {
	if len(v) != poolSize {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidPool, poolSize, len(v))
	}
	var (
		p   Pool
		off int
	)
	copy(p.AssetX[:], v[off:])
	off += codec.AddressLen
	copy(p.AssetY[:], v[off:])
	off += codec.AddressLen
	p.FeeBps = binary.BigEndian.Uint16(v[off:])
	off += consts.Uint16Len
	p.Seed = binary.BigEndian.Uint64(v[off:])
	off += consts.Uint64Len
	p.HasAuthority = v[off] == 1
	off += consts.BoolLen
	copy(p.Authority[:], v[off:])
	off += codec.AddressLen
	p.Locked = v[off] == 1
	return &p, nil
}

func appendBool(v []byte, b bool) []byte {
	if b {
		return append(v, 1)
	}
	return append(v, 0)
}

func PoolKey(pool codec.Address) []byte {
	return keys.Encode(poolPrefix, PoolChunks, pool[:])
}

// PoolAddress derives the address of the pool trading [assetX] for [assetY]
// under [seed]. Order matters: X and Y are distinct roles.
func PoolAddress(assetX codec.Address, assetY codec.Address, seed uint64) codec.Address {
	v := make([]byte, 0, codec.AddressLen*2+consts.Uint64Len)
	v = append(v, assetX[:]...)
	v = append(v, assetY[:]...)
	v = binary.BigEndian.AppendUint64(v, seed)
	return codec.CreateAddress(consts.PoolID, utils.ToID(v))
}

// CustodyAddress is the account holding the reserves of [pool].
func CustodyAddress(pool codec.Address) codec.Address {
	return codec.CreateAddress(consts.CustodyID, utils.ToID(pool[:]))
}

// ShareAssetAddress is the asset representing shares of [pool].
func ShareAssetAddress(pool codec.Address) codec.Address {
	return codec.CreateAddress(consts.ShareAssetID, utils.ToID(pool[:]))
}

// GetPool returns [database.ErrNotFound] if [pool] was never created.
func GetPool(ctx context.Context, im state.Immutable, pool codec.Address) (*Pool, error) {
	v, err := im.GetValue(ctx, PoolKey(pool))
	if err != nil {
		return nil, err
	}
	return UnmarshalPool(v)
}

func SetPool(ctx context.Context, mu state.Mutable, pool codec.Address, p *Pool) error {
	return mu.Insert(ctx, PoolKey(pool), p.Marshal())
}

func PoolExists(ctx context.Context, im state.Immutable, pool codec.Address) (bool, error) {
	_, err := im.GetValue(ctx, PoolKey(pool))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Pools lists the address of every pool stored in [db].
func Pools(db database.Iteratee) ([]codec.Address, error) {
	it := db.NewIteratorWithPrefix([]byte{poolPrefix})
	defer it.Release()

	var pools []codec.Address
	for it.Next() {
		k := it.Key()
		if len(k) != consts.ByteLen+codec.AddressLen+consts.Uint16Len {
			return nil, fmt.Errorf("%w: malformed key %x", ErrInvalidPool, k)
		}
		addr, err := codec.ToAddress(k[consts.ByteLen : consts.ByteLen+codec.AddressLen])
		if err != nil {
			return nil, err
		}
		pools = append(pools, addr)
	}
	return pools, it.Error()
}

// PoolKeys returns the keys touched when moving reserves and shares of
// [pool] on behalf of [actor]. Only the pool record itself is read-only.
func PoolKeys(pool codec.Address, p *Pool, actor codec.Address) state.Keys {
	var (
		custody    = CustodyAddress(pool)
		shareAsset = ShareAssetAddress(pool)
	)
	return state.Keys{
		string(PoolKey(pool)):                 state.Read,
		string(BalanceKey(p.AssetX, custody)): state.All,
		string(BalanceKey(p.AssetY, custody)): state.All,
		string(BalanceKey(p.AssetX, actor)):   state.All,
		string(BalanceKey(p.AssetY, actor)):   state.All,
		string(BalanceKey(shareAsset, actor)): state.All,
		string(SupplyKey(shareAsset)):         state.All,
	}
}
