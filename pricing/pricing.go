// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing holds the constant-product share and swap formulas.
//
// Every function is pure. Products are computed on 256-bit integers and
// every rounding step favors the pool.
package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/cpamm/consts"
)

// ProportionalDeposit returns the reserve amounts owed for minting
// [shares]. A pool without shares accepts [maxX] and [maxY] verbatim.
func ProportionalDeposit(
	reserveX uint64,
	reserveY uint64,
	shareSupply uint64,
	shares uint64,
	maxX uint64,
	maxY uint64,
) (uint64, uint64, error) {
	if shareSupply == 0 {
		return maxX, maxY, nil
	}
	if reserveX == 0 || reserveY == 0 {
		return 0, 0, fmt.Errorf("%w: empty reserve with %d shares outstanding", ErrMath, shareSupply)
	}
	amountX, err := mulDivCeil(shares, reserveX, shareSupply)
	if err != nil {
		return 0, 0, err
	}
	amountY, err := mulDivCeil(shares, reserveY, shareSupply)
	if err != nil {
		return 0, 0, err
	}
	return amountX, amountY, nil
}

// ProportionalWithdraw returns the reserve amounts released by burning
// [shares].
func ProportionalWithdraw(
	reserveX uint64,
	reserveY uint64,
	shareSupply uint64,
	shares uint64,
) (uint64, uint64, error) {
	if shareSupply == 0 {
		return 0, 0, ErrNoLiquidity
	}
	if shares > shareSupply {
		return 0, 0, fmt.Errorf("%w: burning %d of %d shares", ErrMath, shares, shareSupply)
	}
	amountX, err := mulDivFloor(shares, reserveX, shareSupply)
	if err != nil {
		return 0, 0, err
	}
	amountY, err := mulDivFloor(shares, reserveY, shareSupply)
	if err != nil {
		return 0, 0, err
	}
	return amountX, amountY, nil
}

// NetAmountIn returns [amountIn] less the fee, truncated.
func NetAmountIn(amountIn uint64, feeBps uint16) (uint64, error) {
	if feeBps >= consts.BasisPoints {
		return 0, fmt.Errorf("%w: fee %d bps", ErrMath, feeBps)
	}
	return mulDivFloor(amountIn, consts.BasisPoints-uint64(feeBps), consts.BasisPoints)
}

// SwapAmountOut returns the output owed for [amountIn] so that
// (reserveIn + net) * (reserveOut - out) >= reserveIn * reserveOut.
//
// It computes floor(net * reserveOut / (reserveIn + net)), which is one
// unit below reserveOut - floor(reserveIn * reserveOut / (reserveIn + net))
// whenever that division is inexact. The latter can shrink the product.
func SwapAmountOut(
	reserveIn uint64,
	reserveOut uint64,
	feeBps uint16,
	amountIn uint64,
) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrNoLiquidity
	}
	net, err := NetAmountIn(amountIn, feeBps)
	if err != nil {
		return 0, err
	}
	if net == 0 {
		return 0, fmt.Errorf("%w: %d in is consumed by the fee", ErrMath, amountIn)
	}
	if _, err := smath.Add(reserveIn, amountIn); err != nil {
		return 0, fmt.Errorf("%w: input reserve overflows", ErrMath)
	}
	// reserveIn + net cannot overflow since net <= amountIn
	out, err := mulDivFloor(net, reserveOut, reserveIn+net)
	if err != nil {
		return 0, err
	}
	if out == 0 {
		return 0, fmt.Errorf("%w: %d in yields no output", ErrMath, amountIn)
	}
	return out, nil
}

// Invariant returns x * y.
func Invariant(reserveX uint64, reserveY uint64) *uint256.Int {
	x := uint256.NewInt(reserveX)
	return x.Mul(x, uint256.NewInt(reserveY))
}

func mulDivFloor(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrMath)
	}
	r := uint256.NewInt(a)
	r.Mul(r, uint256.NewInt(b))
	r.Div(r, uint256.NewInt(d))
	if !r.IsUint64() {
		return 0, fmt.Errorf("%w: %d*%d/%d overflows", ErrMath, a, b, d)
	}
	return r.Uint64(), nil
}

func mulDivCeil(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrMath)
	}
	var (
		prod = uint256.NewInt(a)
		den  = uint256.NewInt(d)
	)
	prod.Mul(prod, uint256.NewInt(b))
	rem := new(uint256.Int).Mod(prod, den)
	r := new(uint256.Int).Div(prod, den)
	if !rem.IsZero() {
		r.AddUint64(r, 1)
	}
	if !r.IsUint64() {
		return 0, fmt.Errorf("%w: ceil(%d*%d/%d) overflows", ErrMath, a, b, d)
	}
	return r.Uint64(), nil
}
