// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/executor"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

type Request struct {
	Actor  codec.Address
	Action actions.Action
}

type Response struct {
	Result actions.Result
	Err    error
}

// ExecuteBatch runs [reqs] in parallel where they touch disjoint keys.
// Requests that conflict take effect in the order given. Each request
// commits or fails on its own, so the responses line up with [reqs].
func (c *Controller) ExecuteBatch(ctx context.Context, reqs []*Request) ([]*Response, error) {
	if len(reqs) > c.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), c.config.MaxBatchSize)
	}

	ctx, span := c.tracer.Start(ctx, "Controller.ExecuteBatch", oteltrace.WithAttributes(
		attribute.Int("requests", len(reqs)),
	))
	defer span.End()

	var (
		responses = make([]*Response, len(reqs))
		e         = executor.New(len(reqs), c.config.ExecutionCores, c.metrics.executor)
	)
	for i, req := range reqs {
		pool := req.Action.PoolAddress()
		p, err := c.readPool(pool)
		if err != nil {
			responses[i] = &Response{Err: err}
			continue
		}
		i, req := i, req
		e.Run(conflictKeys(req.Action.StateKeys(req.Actor, p), pool), func() error {
			result, err := c.Execute(ctx, req.Actor, req.Action)
			responses[i] = &Response{Result: result, Err: err}
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}
	c.metrics.batches.Inc()
	c.log.Debug("executed batch", zap.Int("requests", len(reqs)))
	return responses, nil
}

// conflictKeys orders every request on the same pool. Keys are computed
// before earlier requests run, so a request on a pool created earlier in
// the batch only knows the pool key.
func conflictKeys(keys state.Keys, pool codec.Address) state.Keys {
	conflicts := make(state.Keys, len(keys))
	for k, perm := range keys {
		conflicts[k] = perm
	}
	conflicts.Add(string(storage.PoolKey(pool)), state.Write)
	return conflicts
}
