// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble implements [database.Database] on cockroachdb/pebble.
package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int  `json:"cacheSize"`
	BytesPerSync                int  `json:"bytesPerSync"`
	WALBytesPerSync             int  `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int  `json:"memTableStopWritesThreshold"`
	MemTableSize                int  `json:"memTableSize"`
	MaxOpenFiles                int  `json:"maxOpenFiles"`
	ConcurrentCompactions       int  `json:"concurrentCompactions"`
	Sync                        bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   1_024 * units.MiB,
		BytesPerSync:                1 * units.MiB,
		WALBytesPerSync:             1 * units.MiB,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

type Database struct {
	db          *pebble.DB
	metrics     *metrics
	writeOption *pebble.WriteOptions

	closing   chan struct{}
	closed    sync.Once
	closeErr  error
	metricsWG sync.WaitGroup
}

// New opens (or creates) the database at [file]. The returned registry
// holds the pebble metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{closing: make(chan struct{})}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                uint64(cfg.MemTableSize),
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		Levels:                      make([]pebble.LevelOptions, 7),
	}
	defer opts.Cache.Unref()
	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.BlockSize = 32 * units.KiB
		l.IndexBlockSize = 256 * units.KiB
		l.FilterPolicy = bloom.FilterPolicy(10)
		l.FilterType = pebble.TableFilter
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		}
		l.EnsureDefaults()
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction

	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	if cfg.Sync {
		d.writeOption = pebble.Sync
	} else {
		d.writeOption = pebble.NoSync
	}
	d.metricsWG.Add(1)
	go func() {
		defer d.metricsWG.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) isClosed() bool {
	select {
	case <-db.closing:
		return true
	default:
		return false
	}
}

func (db *Database) Close() error {
	db.closed.Do(func() {
		close(db.closing)
		db.metricsWG.Wait()
		db.closeErr = updateError(db.db.Close())
	})
	return db.closeErr
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	if db.isClosed() {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a copy of the value stored at [key].
func (db *Database) Get(key []byte) ([]byte, error) {
	if db.isClosed() {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()

	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, nil
}

func (db *Database) Put(key []byte, value []byte) error {
	if db.isClosed() {
		return database.ErrClosed
	}
	return updateError(db.db.Set(key, value, db.writeOption))
}

func (db *Database) Delete(key []byte) error {
	if db.isClosed() {
		return database.ErrClosed
	}
	return updateError(db.db.Delete(key, db.writeOption))
}

func (db *Database) Compact(start []byte, limit []byte) error {
	if db.isClosed() {
		return database.ErrClosed
	}
	if limit == nil {
		// pebble requires a non-nil upper bound
		it := db.NewIteratorWithStart(start)
		for it.Next() {
			limit = it.Key()
		}
		err := it.Error()
		it.Release()
		if err != nil {
			return err
		}
		if limit == nil {
			return nil
		}
		limit = append(limit, 0)
	}
	return updateError(db.db.Compact(start, limit, true))
}

func updateError(err error) error {
	switch {
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	default:
		return err
	}
}
