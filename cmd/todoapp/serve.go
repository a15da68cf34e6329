package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/GoArmGo/TodoApp/internal/di"
)

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd)
		},
	}
}

func (c *cli) serve(cmd *cobra.Command) error {
	c.bootstrap.Info("starting application", "port", c.cfg.ServerPort)

	app, err := di.BuildApp(cmd.Context(), c.cfg)
	if err != nil {
		return err
	}

	logger := app.LoggerIns()
	if logger == nil {
		return errors.New("main logger is nil")
	}
	logger.Info("application initialized successfully", "config", c.cfg.String())

	if err := app.Run(cmd.Context()); err != nil {
		logger.Error("application run failed", "error", err)
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}
