// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger defines how pool operations observe and move balances.
package ledger

import (
	"context"
	"errors"

	"github.com/ava-labs/cpamm/codec"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_ledger.go . Ledger

var (
	// ErrLedger wraps every failure reported by a ledger.
	ErrLedger   = errors.New("ledger error")
	ErrSelfMove = errors.New("source and destination are the same account")
)

// Assets holds fungible balances of reserve assets.
type Assets interface {
	Balance(ctx context.Context, asset codec.Address, account codec.Address) (uint64, error)
	// Move transfers [amount] of [asset] from [from] to [to]. It either
	// moves everything or nothing. Moving between an account and itself
	// is an error.
	Move(ctx context.Context, asset codec.Address, from codec.Address, to codec.Address, amount uint64) error
}

// Shares tracks the supply and holders of pool share assets.
type Shares interface {
	Supply(ctx context.Context, shareAsset codec.Address) (uint64, error)
	Mint(ctx context.Context, shareAsset codec.Address, holder codec.Address, amount uint64) error
	Burn(ctx context.Context, shareAsset codec.Address, holder codec.Address, amount uint64) error
}

type Ledger interface {
	Assets
	Shares
}
