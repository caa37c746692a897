package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var (
	flagProjectStatus      string
	flagProjectTitle       string
	flagProjectDescription string
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Manage projects (clients)",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := current.Stores.Projects
		if err := store.Refresh(cmd.Context()); err != nil {
			return err
		}
		var projects []types.Project
		switch types.ProjectStatus(flagProjectStatus) {
		case "":
			projects = store.Projects()
		case types.ProjectActive:
			projects = store.Active()
		case types.ProjectArchived:
			projects = store.Archived()
		default:
			return types.ErrInvalidProjectStatus
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), projects)
		}
		return renderProjects(cmd.OutOrStdout(), projects)
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := current.Stores.Projects.Add(cmd.Context(), types.Project{
			Title:       args[0],
			Description: flagProjectDescription,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a project's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cachedProject(cmd, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("title") {
			p.Title = flagProjectTitle
		}
		if cmd.Flags().Changed("description") {
			p.Description = flagProjectDescription
		}
		if err := current.Stores.Projects.Update(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", p.ID)
		return nil
	},
}

var projectsArchiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Move a project to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Projects.Archive(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", args[0])
		return nil
	},
}

var projectsActivateCmd = &cobra.Command{
	Use:   "activate ID",
	Short: "Bring a project back from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Projects.Activate(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "activated %s\n", args[0])
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Projects.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

// cachedProject refreshes the project cache and returns the project with id.
func cachedProject(cmd *cobra.Command, id string) (types.Project, error) {
	store := current.Stores.Projects
	if err := store.Refresh(cmd.Context()); err != nil {
		return types.Project{}, err
	}
	for _, p := range store.Projects() {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Project{}, notFound("project", id)
}

func init() {
	projectsListCmd.Flags().StringVar(&flagProjectStatus, "status", "", "only active or archived projects")
	projectsAddCmd.Flags().StringVar(&flagProjectDescription, "description", "", "project description")
	projectsUpdateCmd.Flags().StringVar(&flagProjectTitle, "title", "", "new title")
	projectsUpdateCmd.Flags().StringVar(&flagProjectDescription, "description", "", "new description")

	projectsCmd.AddCommand(projectsListCmd, projectsAddCmd, projectsUpdateCmd,
		projectsArchiveCmd, projectsActivateCmd, projectsDeleteCmd)
}
