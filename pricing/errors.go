// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	// ErrMath is returned when an intermediate or result cannot be
	// represented, or an input makes the formula undefined.
	ErrMath        = errors.New("math error")
	ErrNoLiquidity = errors.New("no liquidity")
)
