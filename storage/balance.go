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

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// [balancePrefix] + [asset] + [account]
func BalanceKey(asset codec.Address, account codec.Address) []byte {
	return keys.Encode(balancePrefix, BalanceChunks, asset[:], account[:])
}

// [supplyPrefix] + [asset]
func SupplyKey(asset codec.Address) []byte {
	return keys.Encode(supplyPrefix, SupplyChunks, asset[:])
}

// GetBalance returns 0 for accounts that never held [asset].
func GetBalance(ctx context.Context, im state.Immutable, asset codec.Address, account codec.Address) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(asset, account))
}

func SetBalance(ctx context.Context, mu state.Mutable, asset codec.Address, account codec.Address, balance uint64) error {
	return setUint64(ctx, mu, BalanceKey(asset, account), balance)
}

func AddBalance(ctx context.Context, mu state.Mutable, asset codec.Address, account codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, asset, account)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (asset=%s, account=%s, bal=%d, add=%d)",
			err, asset, account, bal, amount,
		)
	}
	return nbal, SetBalance(ctx, mu, asset, account, nbal)
}

func SubBalance(ctx context.Context, mu state.Mutable, asset codec.Address, account codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, asset, account)
	if err != nil {
		return 0, err
	}
	if bal < amount {
		return 0, fmt.Errorf(
			"%w: (asset=%s, account=%s, bal=%d, sub=%d)",
			ErrInsufficientBalance, asset, account, bal, amount,
		)
	}
	nbal := bal - amount
	return nbal, SetBalance(ctx, mu, asset, account, nbal)
}

func GetSupply(ctx context.Context, im state.Immutable, asset codec.Address) (uint64, error) {
	return getUint64(ctx, im, SupplyKey(asset))
}

func SetSupply(ctx context.Context, mu state.Mutable, asset codec.Address, supply uint64) error {
	return setUint64(ctx, mu, SupplyKey(asset), supply)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, fmt.Errorf("%w: value of %x has %d bytes", ErrInvalidValue, k, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

// setUint64 removes [k] when [n] is zero so empty accounts take no space.
func setUint64(ctx context.Context, mu state.Mutable, k []byte, n uint64) error {
	if n == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, n))
}
