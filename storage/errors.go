// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPool         = errors.New("invalid pool record")
	ErrInvalidValue        = errors.New("invalid value")
)
