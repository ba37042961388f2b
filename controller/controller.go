// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package controller applies actions to pools stored in a database.
//
// Every action runs under per-key locks on a transactional view of the keys
// it declares. The view is committed to the database in a single batch only
// if the action succeeds.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/lockmap"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/tstate"
)

const lockmapSize = 1_024

var _ state.Immutable = (*dbReader)(nil)

type Controller struct {
	config  *config.Config
	db      database.Database
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics

	locks *lockmap.Lockmap
	// pool records by address, used only to derive key sets
	pools *cache.LRU[codec.Address, *storage.Pool]
}

func New(
	cfg *config.Config,
	db database.Database,
	log logging.Logger,
	tracer trace.Tracer,
	gatherer ametrics.MultiGatherer,
) (*Controller, error) {
	m, err := newMetrics(gatherer)
	if err != nil {
		return nil, err
	}
	return &Controller{
		config:  cfg,
		db:      db,
		log:     log,
		tracer:  tracer,
		metrics: m,
		locks:   lockmap.New(lockmapSize),
		pools:   &cache.LRU[codec.Address, *storage.Pool]{Size: cfg.PoolCacheSize},
	}, nil
}

// Execute applies [action] on behalf of [actor], who is assumed to be
// authorized. Either every change of the action is persisted or none is.
func (c *Controller) Execute(ctx context.Context, actor codec.Address, action actions.Action) (actions.Result, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Execute", oteltrace.WithAttributes(
		attribute.Int("type", int(action.GetTypeID())),
		attribute.Stringer("pool", action.PoolAddress()),
		attribute.Stringer("actor", actor),
	))
	defer span.End()

	start := time.Now()
	result, err := c.execute(ctx, actor, action)
	c.metrics.record(action.GetTypeID(), err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		c.log.Debug("action failed",
			zap.Uint8("type", action.GetTypeID()),
			zap.Stringer("pool", action.PoolAddress()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}
	c.log.Debug("action executed",
		zap.Uint8("type", action.GetTypeID()),
		zap.Stringer("pool", action.PoolAddress()),
		zap.Stringer("actor", actor),
	)
	return result, nil
}

func (c *Controller) execute(ctx context.Context, actor codec.Address, action actions.Action) (actions.Result, error) {
	pool := action.PoolAddress()
	p, err := c.readPool(pool)
	if err != nil {
		return nil, err
	}
	keys := action.StateKeys(actor, p)
	release := c.locks.Acquire(keys)

	// The pool may have been created while we waited on the lock. Its
	// assets never change, so one retry yields the final key set.
	if p == nil {
		current, err := c.readPool(pool)
		if err != nil {
			release()
			return nil, err
		}
		if current != nil {
			release()
			keys = action.StateKeys(actor, current)
			release = c.locks.Acquire(keys)
		}
	}
	defer release()

	ts, view, err := c.newView(ctx, keys)
	if err != nil {
		return nil, err
	}
	result, err := action.Execute(ctx, view, ledger.NewStateLedger(view), actor)
	if err != nil {
		view.Rollback(ctx, 0)
		return nil, err
	}
	view.Commit()
	changes := ts.PendingChanges()
	if err := ts.WriteChanges(ctx, c.tracer, c.db); err != nil {
		return nil, fmt.Errorf("failed to write changes: %w", err)
	}
	c.metrics.stateChanges.Add(float64(changes))
	return result, nil
}

// newView reads every key in [keys] from the database and returns a view
// scoped to them. Callers must hold the locks for [keys].
func (c *Controller) newView(ctx context.Context, keys state.Keys) (*tstate.TState, *tstate.TStateView, error) {
	_, span := c.tracer.Start(ctx, "Controller.newView", oteltrace.WithAttributes(
		attribute.Int("keys", len(keys)),
	))
	defer span.End()

	values := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := c.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		values[k] = v
	}
	ts := tstate.New(len(keys))
	return ts, ts.NewView(keys, values), nil
}

// readPool returns the record of [pool] without locking it, or nil if the
// pool does not exist. The lock flag of the result may be stale.
func (c *Controller) readPool(pool codec.Address) (*storage.Pool, error) {
	if p, ok := c.pools.Get(pool); ok {
		return p, nil
	}
	p, err := storage.GetPool(context.Background(), &dbReader{c.db}, pool)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.pools.Put(pool, p)
	return p, nil
}

// dbReader exposes a database as [state.Immutable].
type dbReader struct {
	db database.KeyValueReader
}

func (r *dbReader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}

func (c *Controller) Deposit(ctx context.Context, actor codec.Address, d *actions.Deposit) (*actions.DepositResult, error) {
	return executeTyped[*actions.DepositResult](ctx, c, actor, d)
}

func (c *Controller) Withdraw(ctx context.Context, actor codec.Address, w *actions.Withdraw) (*actions.WithdrawResult, error) {
	return executeTyped[*actions.WithdrawResult](ctx, c, actor, w)
}

func (c *Controller) Swap(ctx context.Context, actor codec.Address, s *actions.Swap) (*actions.SwapResult, error) {
	return executeTyped[*actions.SwapResult](ctx, c, actor, s)
}

func (c *Controller) CreatePool(ctx context.Context, actor codec.Address, cp *actions.CreatePool) (*actions.CreatePoolResult, error) {
	return executeTyped[*actions.CreatePoolResult](ctx, c, actor, cp)
}

func (c *Controller) SetLock(ctx context.Context, actor codec.Address, s *actions.SetLock) (*actions.SetLockResult, error) {
	return executeTyped[*actions.SetLockResult](ctx, c, actor, s)
}

func executeTyped[R actions.Result](ctx context.Context, c *Controller, actor codec.Address, action actions.Action) (R, error) {
	var empty R
	result, err := c.Execute(ctx, actor, action)
	if err != nil {
		return empty, err
	}
	r, ok := result.(R)
	if !ok {
		return empty, fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return r, nil
}

func (c *Controller) Tracer() trace.Tracer {
	return c.tracer
}

func (c *Controller) Logger() logging.Logger {
	return c.log
}
