// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Threadline CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threadline",
		Short: "Threadline - a session-authenticated forum API",
		Long: `Threadline serves a GraphQL API for a forum application:
user registration, login, password reset, and post CRUD, backed by
PostgreSQL for durable state and Redis for sessions and reset tokens.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
