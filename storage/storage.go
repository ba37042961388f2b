// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage lays out pool records, balances and share supplies in
// state and opens the database that holds them.
package storage

import (
	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/corruptabledb"
	"github.com/ava-labs/avalanchego/database/memdb"

	"github.com/ava-labs/cpamm/pebble"
	"github.com/ava-labs/cpamm/utils"
)

// New opens the pebble database under [dataDir]/[namespace] and registers
// its metrics with [gatherer]. An empty [dataDir] returns an in-memory
// database.
func New(cfg pebble.Config, dataDir string, namespace string, gatherer metrics.MultiGatherer) (database.Database, error) {
	if len(dataDir) == 0 {
		return memdb.New(), nil
	}
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(namespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}

	return corruptabledb.New(db), nil
}
