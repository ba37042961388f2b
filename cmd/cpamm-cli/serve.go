// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/controller"
	"github.com/ava-labs/cpamm/genesis"
	"github.com/ava-labs/cpamm/rpc"
	"github.com/ava-labs/cpamm/server"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/trace"
)

const dbNamespace = "db"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve pools over JSON-RPC",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var b []byte
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return nil, err
	}
	if path, _ := cmd.Flags().GetString("genesis"); path != "" {
		cfg.GenesisPath = path
	}
	return cfg, nil
}

// serve runs until [ctx] is cancelled or the server fails.
func serve(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)
	defer log.Stop()

	gatherer := ametrics.NewPrefixGatherer()
	db, err := storage.New(cfg.Pebble, cfg.DBPath, dbNamespace, gatherer)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	tracer, err := trace.New(cfg.GetTraceConfig())
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Error("failed to close tracer", zap.Error(err))
		}
	}()

	c, err := controller.New(cfg, db, log, tracer, gatherer)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}
	if err := applyGenesis(ctx, c, cfg.GenesisPath); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.GetHTTPAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GetHTTPAddress(), err)
	}
	srv := server.New(
		"",
		log,
		listener,
		server.HTTPConfig{
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		cfg.AllowedOrigins,
		cfg.ShutdownTimeout,
	)
	if err := addRoutes(srv, c, gatherer, cfg.MetricsPath); err != nil {
		_ = listener.Close()
		return err
	}

	log.Info("serving",
		zap.String("name", consts.Name),
		zap.String("version", consts.Version),
		zap.String("address", cfg.GetHTTPAddress()),
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})
	return g.Wait()
}

func applyGenesis(ctx context.Context, c *controller.Controller, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read genesis: %w", err)
	}
	g, err := genesis.New(b)
	if err != nil {
		return err
	}
	applied, err := c.InitializeGenesis(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}
	c.Logger().Info("genesis checked",
		zap.String("path", path),
		zap.Bool("applied", applied),
	)
	return nil
}

func addRoutes(srv server.Server, c *controller.Controller, gatherer ametrics.MultiGatherer, metricsPath string) error {
	handler, err := server.NewHandler(rpc.NewJSONRPCServer(c), rpc.Name)
	if err != nil {
		return err
	}
	if err := srv.AddRoute(handler, rpc.JSONRPCEndpoint); err != nil {
		return err
	}
	stateHandler, err := server.NewHandler(rpc.NewJSONRPCStateServer(c), rpc.Name)
	if err != nil {
		return err
	}
	if err := srv.AddRoute(stateHandler, rpc.JSONRPCStateEndpoint); err != nil {
		return err
	}
	return srv.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), metricsPath)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path of a JSON config file")
	serveCmd.Flags().String("genesis", "", "Path of a genesis file, overriding the config")
}
