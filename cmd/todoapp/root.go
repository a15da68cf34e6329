package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GoArmGo/TodoApp/internal/config"
)

// cli хранит состояние, общее для всех подкоманд
type cli struct {
	bootstrap *slog.Logger
	cfg       *config.Config
}

func newRootCmd(bootstrap *slog.Logger) *cobra.Command {
	c := &cli{bootstrap: bootstrap}

	root := &cobra.Command{
		Use:   "todoapp",
		Short: "Multi-user to-do web application",
		Long: `todoapp serves a session-authenticated to-do list over HTTP.

Configuration is read from the environment (and .env when present):
DATABASE_URL, SECRET_KEY, SERVER_PORT, STORAGE_ENGINE and friends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		// без подкоманды запускается сервер
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd)
		},
	}

	root.AddCommand(c.newServeCmd())
	root.AddCommand(c.newMigrateCmd())
	root.AddCommand(c.newUsersCmd())
	return root
}
