package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/seed"
	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var (
	flagInitOwner   string
	flagInitName    string
	flagInitKeyOnly bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize storage and optionally register the owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if flagInitKeyOnly {
			key, err := vault.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, key)
			return nil
		}

		if flagInitOwner != "" {
			if flagInitName == "" {
				return usageError("--name is required with --owner")
			}
			s, err := seed.Load(cmd.Context(), current.Repos, seed.File{
				Users: []seed.User{{TelegramID: flagInitOwner, Name: flagInitName, Role: string(types.RoleOwner)}},
			})
			if err != nil {
				return err
			}
			if s.Users == 0 {
				fmt.Fprintf(out, "user %s already exists\n", flagInitOwner)
			} else {
				fmt.Fprintf(out, "owner %s registered\n", flagInitOwner)
			}
		}
		fmt.Fprintln(out, "taskdesk initialized, data in", dataDir)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&flagInitOwner, "owner", "", "telegram id of the owner to register")
	initCmd.Flags().StringVar(&flagInitName, "name", "", "owner's display name")
	initCmd.Flags().BoolVar(&flagInitKeyOnly, "generate-key", false, "print a new access_key and exit")
}
