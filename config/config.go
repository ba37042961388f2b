// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:revive
package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/pebble"
	"github.com/ava-labs/cpamm/trace"
)

const (
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 9650
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMetricsPath     = "/metrics"
)

type Config struct {
	LogLevel logging.Level `json:"logLevel"`
	// Rotating log file directory. Empty logs to stdout only.
	LogDir string `json:"logDir"`

	// Empty keeps state in memory.
	DBPath string        `json:"dbPath"`
	Pebble pebble.Config `json:"pebble"`

	Trace trace.Config `json:"trace"`

	HTTPHost        string        `json:"httpHost"`
	HTTPPort        uint16        `json:"httpPort"`
	ReadTimeout     time.Duration `json:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`
	AllowedOrigins  []string      `json:"allowedOrigins"`
	MetricsPath     string        `json:"metricsPath"`

	// Number of batch operations executed at once.
	ExecutionCores int `json:"executionCores"`
	// Largest batch accepted over RPC.
	MaxBatchSize int `json:"maxBatchSize"`
	// Pool records kept in memory.
	PoolCacheSize int `json:"poolCacheSize"`

	// Path of a genesis file applied to an empty database.
	GenesisPath string `json:"genesisPath"`
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: logging.Info,
		Pebble:   pebble.NewDefaultConfig(),
		Trace: trace.Config{
			Enabled:         false,
			TraceSampleRate: 1,
			AppName:         consts.Name,
			Agent:           consts.Name,
			Version:         consts.Version,
		},
		HTTPHost:        defaultHTTPHost,
		HTTPPort:        defaultHTTPPort,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
		AllowedOrigins:  []string{"*"},
		MetricsPath:     defaultMetricsPath,
		ExecutionCores:  runtime.NumCPU(),
		MaxBatchSize:    1_024,
		PoolCacheSize:   4_096,
	}
}

// New parses [b] over the defaults. An empty [b] returns the defaults.
func New(b []byte) (*Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Verify() error {
	if c.ExecutionCores < 1 {
		return fmt.Errorf("%w: executionCores %d", ErrInvalidConfig, c.ExecutionCores)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("%w: maxBatchSize %d", ErrInvalidConfig, c.MaxBatchSize)
	}
	if c.PoolCacheSize < 1 {
		return fmt.Errorf("%w: poolCacheSize %d", ErrInvalidConfig, c.PoolCacheSize)
	}
	if len(c.MetricsPath) == 0 || c.MetricsPath[0] != '/' {
		return fmt.Errorf("%w: metricsPath %q", ErrInvalidConfig, c.MetricsPath)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level    { return c.LogLevel }
func (c *Config) GetTraceConfig() *trace.Config { return &c.Trace }

// GetHTTPAddress returns the host:port the server listens on.
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
