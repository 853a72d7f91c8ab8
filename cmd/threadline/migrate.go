// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package main

import (
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/threadline/threadline/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect database schema migrations.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations (destructive)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Down(); err != nil {
						return err
					}
					cmd.Println("Migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show current migration version and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					pending, err := m.PendingMigrations()
					if err != nil {
						return err
					}
					cmd.Printf("Version: %d (dirty: %v)\n", version, dirty)
					cmd.Printf("Pending: %d\n", len(pending))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations",
			Long: `Set the migration version without running migrations. Use only to
recover from a dirty state after manually fixing the database.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_VERSION").
						With("argument", args[0]).
						Wrap(err)
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					if err := m.Force(version); err != nil {
						return err
					}
					cmd.Printf("Version forced to %d\n", version)
					return nil
				})
			},
		},
	)

	return cmd
}

// withMigrator resolves the database URL, opens a migrator, runs fn, and
// closes the migrator.
func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrf("warning: %v\n", closeErr)
		}
	}()

	return fn(migrator)
}
