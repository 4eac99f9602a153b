// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tahmin/internal/platform/events"
	pgstore "github.com/taibuivan/tahmin/internal/platform/postgres"
	"github.com/taibuivan/tahmin/internal/platform/sec"
	"github.com/taibuivan/tahmin/internal/users/admin"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

// userPromoteCmd bootstraps the first admin, which the HTTP API cannot do
// because role changes themselves require an admin.
var userPromoteCmd = &cobra.Command{
	Use:     "promote <email> <role>",
	Short:   "Set the role of the account registered with email",
	Example: "  api user promote owner@example.com admin",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := sec.ParseRole(args[1])
		if err != nil {
			return fmt.Errorf("role must be one of user, editor, admin: %w", err)
		}

		log, cfg := bootstrap()
		ctx := cmd.Context()

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		user, err := auth.NewUserRepository(pool).FindByEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("find account %q: %w", args[0], err)
		}

		// The operator acts outside any account, so self-demotion cannot apply.
		operator := &sec.Identity{Role: sec.RoleAdmin}
		service := admin.NewService(admin.NewUserRepository(pool), events.Noop{})

		updated, err := service.UpdateRole(ctx, operator, user.ID, role)
		if err != nil {
			return err
		}

		log.Info("user_promoted",
			slog.String("user_id", updated.ID),
			slog.String("email", updated.Email),
			slog.String("role", updated.Role.String()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userPromoteCmd)
}
