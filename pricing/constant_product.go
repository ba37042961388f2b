// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ConstantProduct simulates a pool from a snapshot. Each successful call
// updates the snapshot, so sequences of operations can be quoted.
type ConstantProduct struct {
	reserveX uint64
	reserveY uint64
	supply   uint64
	feeBps   uint16
}

func NewConstantProduct(
	reserveX uint64,
	reserveY uint64,
	supply uint64,
	feeBps uint16,
) *ConstantProduct {
	return &ConstantProduct{
		reserveX: reserveX,
		reserveY: reserveY,
		supply:   supply,
		feeBps:   feeBps,
	}
}

// Deposit returns the amounts taken for minting [shares].
func (c *ConstantProduct) Deposit(shares, maxX, maxY uint64) (uint64, uint64, error) {
	x, y, err := ProportionalDeposit(c.reserveX, c.reserveY, c.supply, shares, maxX, maxY)
	if err != nil {
		return 0, 0, err
	}
	newSupply, err := smath.Add(c.supply, shares)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: share supply overflows", ErrMath)
	}
	newX, err := smath.Add(c.reserveX, x)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reserve x overflows", ErrMath)
	}
	newY, err := smath.Add(c.reserveY, y)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reserve y overflows", ErrMath)
	}
	c.supply, c.reserveX, c.reserveY = newSupply, newX, newY
	return x, y, nil
}

// Withdraw returns the amounts released by burning [shares].
func (c *ConstantProduct) Withdraw(shares uint64) (uint64, uint64, error) {
	x, y, err := ProportionalWithdraw(c.reserveX, c.reserveY, c.supply, shares)
	if err != nil {
		return 0, 0, err
	}
	c.supply -= shares
	c.reserveX -= x
	c.reserveY -= y
	return x, y, nil
}

// Swap trades [amountIn] of X (isX) or Y for the other asset.
func (c *ConstantProduct) Swap(isX bool, amountIn uint64) (uint64, error) {
	reserveIn, reserveOut := c.reserveY, c.reserveX
	if isX {
		reserveIn, reserveOut = c.reserveX, c.reserveY
	}
	out, err := SwapAmountOut(reserveIn, reserveOut, c.feeBps, amountIn)
	if err != nil {
		return 0, err
	}
	// SwapAmountOut rejects an input reserve overflow and out < reserveOut
	if isX {
		c.reserveX += amountIn
		c.reserveY -= out
	} else {
		c.reserveY += amountIn
		c.reserveX -= out
	}
	return out, nil
}

// Invariant returns reserveX * reserveY.
func (c *ConstantProduct) Invariant() *uint256.Int {
	return Invariant(c.reserveX, c.reserveY)
}

// SpotPrice returns the price of one X in Y, scaled by [precision].
func (c *ConstantProduct) SpotPrice(precision uint64) (uint64, error) {
	if c.reserveX == 0 || c.reserveY == 0 {
		return 0, ErrNoLiquidity
	}
	return mulDivFloor(c.reserveY, precision, c.reserveX)
}

// State returns reserveX, reserveY and the share supply.
func (c *ConstantProduct) State() (uint64, uint64, uint64) {
	return c.reserveX, c.reserveY, c.supply
}
