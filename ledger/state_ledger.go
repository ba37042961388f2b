// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ Ledger = (*StateLedger)(nil)

// StateLedger keeps balances and share supplies in [state.Mutable] using
// the [storage] layout.
type StateLedger struct {
	mu state.Mutable
}

func NewStateLedger(mu state.Mutable) *StateLedger {
	return &StateLedger{mu: mu}
}

func (l *StateLedger) Balance(ctx context.Context, asset codec.Address, account codec.Address) (uint64, error) {
	bal, err := storage.GetBalance(ctx, l.mu, asset, account)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLedger, err)
	}
	return bal, nil
}

func (l *StateLedger) Move(
	ctx context.Context,
	asset codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	if from == to {
		return fmt.Errorf("%w: %w: %s", ErrLedger, ErrSelfMove, from)
	}
	if amount == 0 {
		return nil
	}
	// Check the credit first so a failure leaves [from] untouched.
	toBal, err := storage.GetBalance(ctx, l.mu, asset, to)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if _, err := smath.Add(toBal, amount); err != nil {
		return fmt.Errorf("%w: %w: crediting %d %s to %s", ErrLedger, err, amount, asset, to)
	}
	if _, err := storage.SubBalance(ctx, l.mu, asset, from, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if _, err := storage.AddBalance(ctx, l.mu, asset, to, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	return nil
}

func (l *StateLedger) Supply(ctx context.Context, shareAsset codec.Address) (uint64, error) {
	supply, err := storage.GetSupply(ctx, l.mu, shareAsset)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLedger, err)
	}
	return supply, nil
}

func (l *StateLedger) Mint(ctx context.Context, shareAsset codec.Address, holder codec.Address, amount uint64) error {
	supply, err := l.Supply(ctx, shareAsset)
	if err != nil {
		return err
	}
	newSupply, err := smath.Add(supply, amount)
	if err != nil {
		return fmt.Errorf("%w: %w: minting %d %s", ErrLedger, err, amount, shareAsset)
	}
	bal, err := storage.GetBalance(ctx, l.mu, shareAsset, holder)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if _, err := smath.Add(bal, amount); err != nil {
		return fmt.Errorf("%w: %w: minting %d %s to %s", ErrLedger, err, amount, shareAsset, holder)
	}
	if err := storage.SetSupply(ctx, l.mu, shareAsset, newSupply); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if _, err := storage.AddBalance(ctx, l.mu, shareAsset, holder, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	return nil
}

func (l *StateLedger) Burn(ctx context.Context, shareAsset codec.Address, holder codec.Address, amount uint64) error {
	supply, err := l.Supply(ctx, shareAsset)
	if err != nil {
		return err
	}
	if supply < amount {
		return fmt.Errorf("%w: %w: burning %d of %d %s", ErrLedger, storage.ErrInsufficientBalance, amount, supply, shareAsset)
	}
	if _, err := storage.SubBalance(ctx, l.mu, shareAsset, holder, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if err := storage.SetSupply(ctx, l.mu, shareAsset, supply-amount); err != nil {
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	return nil
}
