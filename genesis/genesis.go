// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"gopkg.in/yaml.v2"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/ledger"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

type CustomAllocation struct {
	Asset   codec.Address `json:"asset"`
	Address codec.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

// InitialDeposit seeds a genesis pool from [Provider]'s allocation.
type InitialDeposit struct {
	Provider codec.Address `json:"provider"`
	Shares   uint64        `json:"shares"`
	AmountX  uint64        `json:"amountX"`
	AmountY  uint64        `json:"amountY"`
}

type Pool struct {
	actions.CreatePool

	Deposit *InitialDeposit `json:"deposit,omitempty"`
}

type Genesis struct {
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	Pools            []*Pool             `json:"pools"`
}

// New parses a genesis written in JSON or YAML. Addresses in YAML must be
// quoted.
func New(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if len(b) == 0 {
		return g, nil
	}
	if !json.Valid(b) {
		var err error
		b, err = yamlToJSON(b)
		if err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
	}
	return g, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis: %w", err)
	}
	return json.Marshal(jsonValue(v))
}

// jsonValue rewrites the maps yaml produces so they can be marshalled to
// JSON.
func jsonValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonValue(val)
		}
		return m
	case []interface{}:
		for i := range t {
			t[i] = jsonValue(t[i])
		}
		return t
	default:
		return v
	}
}

// StateKeys returns every key [InitializeState] may write.
func (g *Genesis) StateKeys() state.Keys {
	keys := state.Keys{}
	for _, alloc := range g.CustomAllocation {
		keys.Add(string(storage.BalanceKey(alloc.Asset, alloc.Address)), state.All)
	}
	for _, p := range g.Pools {
		pool := p.PoolAddress()
		keys.Add(string(storage.PoolKey(pool)), state.All)
		if p.Deposit == nil {
			continue
		}
		record := &storage.Pool{AssetX: p.AssetX, AssetY: p.AssetY}
		for k := range storage.PoolKeys(pool, record, p.Deposit.Provider) {
			keys.Add(k, state.All)
		}
	}
	return keys
}

// InitializeState credits every allocation, then creates each pool and
// makes its initial deposit, in order.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	supplies := map[codec.Address]uint64{}
	for _, alloc := range g.CustomAllocation {
		supply, err := safemath.Add(supplies[alloc.Asset], alloc.Balance)
		if err != nil {
			return fmt.Errorf("%w: asset=%s", err, alloc.Asset)
		}
		supplies[alloc.Asset] = supply
		if _, err := storage.AddBalance(ctx, mu, alloc.Asset, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}

	l := ledger.NewStateLedger(mu)
	for i, p := range g.Pools {
		if _, err := p.CreatePool.Execute(ctx, mu, l, codec.EmptyAddress); err != nil {
			return fmt.Errorf("pool %d: %w", i, err)
		}
		if p.Deposit == nil {
			continue
		}
		deposit := &actions.Deposit{
			Pool:   p.PoolAddress(),
			Shares: p.Deposit.Shares,
			MaxX:   p.Deposit.AmountX,
			MaxY:   p.Deposit.AmountY,
		}
		if _, err := deposit.Execute(ctx, mu, l, p.Deposit.Provider); err != nil {
			return fmt.Errorf("pool %d deposit: %w", i, err)
		}
	}
	return nil
}
