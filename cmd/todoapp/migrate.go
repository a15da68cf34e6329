package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoArmGo/TodoApp/internal/database/client"
	"github.com/GoArmGo/TodoApp/internal/database/migrations"
	"github.com/GoArmGo/TodoApp/internal/di"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withMigrator(cmd, func(m *migrations.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	})

	return cmd
}

func (c *cli) withMigrator(cmd *cobra.Command, fn func(m *migrations.Migrator) error) error {
	logger := di.NewLogger(c.cfg)

	dbClient, err := client.NewClient(cmd.Context(), c.cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	m, err := migrations.New(dbClient.DB, logger)
	if err != nil {
		return err
	}
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *migrations.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
