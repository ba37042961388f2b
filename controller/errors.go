// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import "errors"

var (
	ErrUnexpectedResult = errors.New("unexpected result type")
	ErrBatchTooLarge    = errors.New("batch too large")
)
