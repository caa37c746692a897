package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var (
	flagUserRole string
	flagUserID   string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage team members",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users := current.Stores.Users
		if err := users.Refresh(cmd.Context()); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), users.Users())
		}
		return renderUsers(cmd.OutOrStdout(), users.Users())
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add TELEGRAM_ID NAME",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := types.User{ID: flagUserID, TelegramID: args[0], Name: args[1], Role: types.Role(flagUserRole)}
		if err := current.Stores.Users.Add(cmd.Context(), u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", u.TelegramID, u.Role)
		return nil
	},
}

var usersRemoveCmd = &cobra.Command{
	Use:   "remove TELEGRAM_ID",
	Short: "Remove a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Users.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role TELEGRAM_ID ROLE",
	Short: "Change a team member's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := types.Role(args[1])
		if err := current.Stores.Users.SetRole(cmd.Context(), args[0], role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
		return nil
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&flagUserRole, "role", string(types.RoleEmployee), "role: owner, manager or employee")
	usersAddCmd.Flags().StringVar(&flagUserID, "id", "", "row id (default: the telegram id)")

	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersRemoveCmd, usersRoleCmd)
}
