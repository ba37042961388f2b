// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/genesis"
)

// InitializeGenesis applies [g] if the database is empty and reports
// whether it did.
func (c *Controller) InitializeGenesis(ctx context.Context, g *genesis.Genesis) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "Controller.InitializeGenesis")
	defer span.End()

	keys := g.StateKeys()
	release := c.locks.Acquire(keys)
	defer release()

	hasState, err := c.HasState()
	if err != nil {
		return false, err
	}
	if hasState {
		c.log.Info("skipping genesis, state already initialized")
		return false, nil
	}

	ts, view, err := c.newView(ctx, keys)
	if err != nil {
		return false, err
	}
	if err := g.InitializeState(ctx, c.tracer, view); err != nil {
		return false, err
	}
	view.Commit()
	if err := ts.WriteChanges(ctx, c.tracer, c.db); err != nil {
		return false, err
	}
	c.log.Info("initialized genesis",
		zap.Int("allocations", len(g.CustomAllocation)),
		zap.Int("pools", len(g.Pools)),
	)
	return true, nil
}
