// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/cpamm/actions"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codectest"
	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/controller"
	"github.com/ava-labs/cpamm/rpc"
	"github.com/ava-labs/cpamm/server"
	"github.com/ava-labs/cpamm/storage"
)

func newTestCmd(output string, actor string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output", output, "")
	cmd.Flags().String("actor", actor, "")
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func TestPrintValue(t *testing.T) {
	require := require.New(t)

	v := balanceResponse{
		Asset:   codectest.NewRandomAsset(),
		Account: codectest.NewRandomAddress(),
		Balance: 42,
	}

	cmd := newTestCmd("text", "")
	require.NoError(printValue(cmd, v))
	require.Equal("42\n", cmd.OutOrStdout().(*bytes.Buffer).String())

	cmd = newTestCmd("JSON", "")
	require.NoError(printValue(cmd, v))
	require.Contains(cmd.OutOrStdout().(*bytes.Buffer).String(), `"balance": 42`)
}

func TestGetAddress(t *testing.T) {
	require := require.New(t)

	actor := codectest.NewRandomAddress()
	got, err := getAddress(newTestCmd("text", actor.String()), "actor")
	require.NoError(err)
	require.Equal(actor, got)

	_, err = getAddress(newTestCmd("text", "zz"), "actor")
	require.ErrorContains(err, "invalid actor")
}

func TestReadFileOrInline(t *testing.T) {
	require := require.New(t)

	b, err := readFileOrInline(` [{"type": "swap"}] `)
	require.NoError(err)
	require.Equal(`[{"type": "swap"}]`, string(b))

	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(os.WriteFile(path, []byte(`[]`), 0o600))
	b, err = readFileOrInline(path)
	require.NoError(err)
	require.Equal(`[]`, string(b))

	_, err = readFileOrInline(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(err)
}

func TestParseBatch(t *testing.T) {
	require := require.New(t)

	var (
		actor = codectest.NewRandomAddress()
		other = codectest.NewRandomAddress()
		pool  = codectest.NewRandomAddress()
	)
	b := []byte(fmt.Sprintf(`[
		{"type": "swap", "action": {"pool": %q, "isX": true, "amountIn": 10, "minOut": 1}},
		{"actor": %q, "type": "withdraw", "action": {"pool": %q, "shares": 5}}
	]`, pool, other, pool))

	reqs, err := parseBatch(newTestCmd("text", actor.String()), b)
	require.NoError(err)
	require.Len(reqs, 2)

	require.Equal(actor, reqs[0].Actor)
	require.Equal(&actions.Swap{Pool: pool, IsX: true, AmountIn: 10, MinOut: 1}, reqs[0].Action)
	require.Equal(other, reqs[1].Actor)
	require.Equal(&actions.Withdraw{Pool: pool, Shares: 5}, reqs[1].Action)

	_, err = parseBatch(newTestCmd("text", actor.String()), []byte(`[{"type": "mint", "action": {}}]`))
	require.ErrorIs(err, actions.ErrUnknownAction)

	// the actor is only required when an entry omits it
	_, err = parseBatch(newTestCmd("text", ""), []byte(`[{"type": "setLock", "action": {}}]`))
	require.ErrorContains(err, "actor")
}

func TestLoadConfig(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpPort": 9700, "genesisPath": "a.json"}`), 0o600))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", path, "")
	cmd.Flags().String("genesis", "", "")
	cfg, err := loadConfig(cmd)
	require.NoError(err)
	require.Equal(uint16(9700), cfg.HTTPPort)
	require.Equal("a.json", cfg.GenesisPath)

	require.NoError(cmd.Flags().Set("genesis", "b.json"))
	cfg, err = loadConfig(cmd)
	require.NoError(err)
	require.Equal("b.json", cfg.GenesisPath)

	require.NoError(os.WriteFile(path, []byte(`{"executionCores": 0}`), 0o600))
	_, err = loadConfig(cmd)
	require.ErrorIs(err, config.ErrInvalidConfig)
}

func TestServeRoutes(t *testing.T) {
	var (
		require = require.New(t)
		ctx     = context.Background()
		alice   = codectest.NewRandomAddress()
		assetX  = codectest.NewRandomAsset()
		assetY  = codectest.NewRandomAsset()
	)

	genesisPath := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(os.WriteFile(genesisPath, []byte(fmt.Sprintf(`{
		"customAllocation": [
			{"asset": %q, "address": %q, "balance": 1000000},
			{"asset": %q, "address": %q, "balance": 2000000}
		],
		"pools": [
			{"assetX": %q, "assetY": %q, "feeBps": 30, "deposit": {"provider": %q, "shares": 1000, "amountX": 1000000, "amountY": 2000000}}
		]
	}`, assetX, alice, assetY, alice, assetX, assetY, alice)), 0o600))

	cfg := config.NewDefaultConfig()
	gatherer := ametrics.NewPrefixGatherer()
	c, err := controller.New(cfg, memdb.New(), logging.NoLog{}, trace.Noop, gatherer)
	require.NoError(err)
	require.NoError(applyGenesis(ctx, c, genesisPath))
	require.NoError(applyGenesis(ctx, c, ""))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	srv := server.New("", logging.NoLog{}, listener, server.HTTPConfig{}, cfg.AllowedOrigins, cfg.ShutdownTimeout)
	require.NoError(addRoutes(srv, c, gatherer, cfg.MetricsPath))
	go func() {
		_ = srv.Dispatch()
	}()
	defer func() {
		require.NoError(srv.Shutdown())
	}()

	uri := "http://" + listener.Addr().String()
	cli := rpc.NewJSONRPCClient(uri)

	pools, err := cli.Pools(ctx)
	require.NoError(err)
	pool := storage.PoolAddress(assetX, assetY, 0)
	require.Equal([]codec.Address{pool}, pools)

	info, err := cli.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(1_000_000), info.ReserveX)
	require.Equal(uint64(2_000_000), info.ReserveY)

	quote, err := cli.QuoteSwap(ctx, pool, true, 10_000)
	require.NoError(err)
	require.Equal(uint64(19_743), quote.AmountOut)

	resp, err := http.Get(uri + cfg.MetricsPath)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.Contains(string(body), "cpamm_")
}

func TestValidateAddress(t *testing.T) {
	require := require.New(t)

	require.NoError(validateAddress(" " + codectest.NewRandomAddress().String() + " "))
	require.ErrorIs(validateAddress("  "), errInputEmpty)
	require.Error(validateAddress("0x1234"))
}
