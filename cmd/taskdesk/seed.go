package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed [FILE]",
	Short: "Load a YAML fixture (the built-in demo data when FILE is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture := seed.Demo()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return usageError(err.Error())
			}
			defer f.Close()
			if fixture, err = seed.Parse(f); err != nil {
				return usageError(err.Error())
			}
		}

		s, err := seed.Load(cmd.Context(), current.Repos, fixture)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), s)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d users, %d projects, %d tasks, %d comments, %d accesses\n",
			s.Users, s.Projects, s.Tasks, s.Comments, s.Accesses)
		return nil
	},
}
