// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrMissingAction = errors.New("batch request has no action")
	ErrResultLength  = errors.New("batch result count does not match requests")
)
