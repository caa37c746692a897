package main

import (
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user the command runs as",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := current.Session.User()
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), u)
		}
		return renderWhoami(cmd.OutOrStdout(), u)
	},
}
