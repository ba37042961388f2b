// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Batch = (*batch)(nil)

type batch struct {
	db    *Database
	batch *pebble.Batch
	size  int

	ops []database.BatchOp
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, batch: db.db.NewBatch()}
}

func (b *batch) Put(key, value []byte) error {
	b.size += len(key) + len(value)
	b.ops = append(b.ops, database.BatchOp{
		Key:   key,
		Value: value,
	})
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key)
	b.ops = append(b.ops, database.BatchOp{
		Key:    key,
		Delete: true,
	})
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

// Write commits every operation of the batch atomically.
func (b *batch) Write() error {
	if b.db.isClosed() {
		return database.ErrClosed
	}
	return updateError(b.batch.Commit(b.db.writeOption))
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.Delete {
			if err := w.Delete(op.Key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.Key, op.Value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
