// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/consts"
)

const (
	logMaxSize    = 8 // MB
	logMaxAge     = 7 // days
	logMaxBackups = 5
)

// newLogger writes to stdout and, when [cfg.LogDir] is set, to a rotating
// file in that directory.
func newLogger(cfg *config.Config) logging.Logger {
	level := cfg.GetLogLevel()
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, os.Stdout, logging.Colors.ConsoleEncoder()),
	}
	if cfg.LogDir != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, consts.Name+".log"),
			MaxSize:    logMaxSize,
			MaxAge:     logMaxAge,
			MaxBackups: logMaxBackups,
			Compress:   true,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.Plain.FileEncoder()))
	}
	return logging.NewLogger(consts.Name, cores...)
}
