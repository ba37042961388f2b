// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	IDLen     = 32
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
)

// BasisPoints is the denominator for fees expressed in basis points.
const BasisPoints = 10_000

const (
	Name    = "cpamm"
	Version = "v0.1.0"
)

// TypeIDs used as the first byte of a [codec.Address].
const (
	AccountID uint8 = iota
	AssetID
	PoolID
	CustodyID
	ShareAssetID
)

// Action and result TypeIDs
const (
	DepositID uint8 = iota
	WithdrawID
	SwapID
	CreatePoolID
	SetLockID
)
