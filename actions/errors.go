// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrPoolLocked       = errors.New("pool is locked")
	ErrSlippageExceeded = errors.New("slippage exceeded")
	ErrZeroAmount       = errors.New("amount is zero")
	ErrUnknownAction    = errors.New("unknown action")
	ErrCustodyActor     = errors.New("actor is the pool custody account")

	// Pool-related errors
	ErrPoolDoesNotExist = errors.New("pool does not exist")
	ErrPoolExists       = errors.New("pool already exists")
	ErrIdenticalAssets  = errors.New("asset X and asset Y are identical")
	ErrInvalidFee       = errors.New("fee must be below 10000 bps")
	ErrNotAuthority     = errors.New("actor is not pool authority")
	ErrUnmanagedPool    = errors.New("pool has no authority")
)
