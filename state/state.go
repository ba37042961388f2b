// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store changes are committed to.
//
// Missing keys must be reported with [database.ErrNotFound]. Both
// avalanchego's memdb and our pebble wrapper satisfy it.
type Database interface {
	Get(key []byte) ([]byte, error)
	NewBatch() database.Batch
}
