// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Tahmin HTTP API.
//
// # Commands
//
//	api                        Start the HTTP server (same as "api serve")
//	api serve                  Start the HTTP server
//	api migrate up|down|version
//	api user promote <email> <role>
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tahmin/internal/platform/config"
	"github.com/taibuivan/tahmin/internal/platform/constants"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "api",
	Short:        "Tahmin prediction site API",
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap builds the logger and loads configuration shared by every command.
func bootstrap() (*slog.Logger, *config.Config) {

	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	return log, cfg
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
