// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tahmin/internal/platform/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending up migrations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		log, cfg := bootstrap()
		return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1 step)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}

		log, cfg := bootstrap()
		return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, steps, log)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, cfg := bootstrap()

		version, dirty, err := migration.Version(cfg.DatabaseURL, cfg.MigrationPath)
		if err != nil {
			return fmt.Errorf("read migration version failed: %w", err)
		}

		log.Info("migration_version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		cmd.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
