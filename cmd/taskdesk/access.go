package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var (
	flagAccessURL      string
	flagAccessLogin    string
	flagAccessPassword string
	flagAccessComment  string
	flagAccessReveal   bool
)

var accessCmd = &cobra.Command{
	Use:     "access",
	Aliases: []string{"accesses"},
	Short:   "Manage project accesses (managers only)",
}

var accessListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List the accesses of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := current.Stores.Accesses
		if err := store.Refresh(cmd.Context(), args[0]); err != nil {
			return err
		}
		accesses := store.ByProject(args[0])
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), accesses)
		}
		return renderAccesses(cmd.OutOrStdout(), accesses, flagAccessReveal)
	},
}

var accessAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID URL",
	Short: "Add an access to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := current.Stores.Accesses.Add(cmd.Context(), types.Access{
			ProjectID: args[0],
			URL:       args[1],
			Login:     flagAccessLogin,
			Password:  flagAccessPassword,
			Comment:   flagAccessComment,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var accessUpdateCmd = &cobra.Command{
	Use:   "update PROJECT_ID ID",
	Short: "Change an access",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := current.Stores.Accesses
		if err := store.Refresh(cmd.Context(), args[0]); err != nil {
			return err
		}
		a, ok := findAccess(store.ByProject(args[0]), args[1])
		if !ok {
			return notFound("access", args[1])
		}
		flags := cmd.Flags()
		if flags.Changed("url") {
			a.URL = flagAccessURL
		}
		if flags.Changed("login") {
			a.Login = flagAccessLogin
		}
		if flags.Changed("password") {
			a.Password = flagAccessPassword
		}
		if flags.Changed("comment") {
			a.Comment = flagAccessComment
		}
		if err := store.Update(cmd.Context(), a); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", a.ID)
		return nil
	},
}

var accessDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT_ID ID",
	Short: "Delete an access",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Accesses.Delete(cmd.Context(), args[1], args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
		return nil
	},
}

func findAccess(accesses []types.Access, id string) (types.Access, bool) {
	for _, a := range accesses {
		if a.ID == id {
			return a, true
		}
	}
	return types.Access{}, false
}

func init() {
	accessListCmd.Flags().BoolVar(&flagAccessReveal, "reveal", false, "print passwords instead of a mask")

	for _, c := range []*cobra.Command{accessAddCmd, accessUpdateCmd} {
		c.Flags().StringVar(&flagAccessLogin, "login", "", "login")
		c.Flags().StringVar(&flagAccessPassword, "password", "", "password")
		c.Flags().StringVar(&flagAccessComment, "comment", "", "free-form note")
	}
	accessUpdateCmd.Flags().StringVar(&flagAccessURL, "url", "", "new url")

	accessCmd.AddCommand(accessListCmd, accessAddCmd, accessUpdateCmd, accessDeleteCmd)
}
