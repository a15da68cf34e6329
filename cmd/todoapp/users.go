package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoArmGo/TodoApp/internal/di"
	"github.com/GoArmGo/TodoApp/internal/domain"
)

func (c *cli) newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Operator commands for user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user together with all of their tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.deleteUser(cmd, args[0])
		},
	})

	return cmd
}

func (c *cli) deleteUser(cmd *cobra.Command, username string) error {
	app, err := di.BuildApp(cmd.Context(), c.cfg)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	user, err := app.Auth().FindUser(cmd.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("пользователь %q не найден", username)
		}
		return err
	}

	removed, err := app.Tasks().DeleteUser(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s (id %d) and %d task(s)\n", user.Username, user.ID, removed)
	return nil
}
