package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var (
	flagTaskProject     string
	flagTaskAssignee    string
	flagTaskMine        bool
	flagTaskTitle       string
	flagTaskDescription string
	flagTaskDeadline    string
	flagTaskAssign      string
	flagTaskStatus      string
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage tasks, their assignees and comments",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := current.Stores.Tasks
		if err := store.Refresh(cmd.Context()); err != nil {
			return err
		}
		assignee := flagTaskAssignee
		if flagTaskMine {
			u := current.Session.User()
			if u == nil {
				return usageError("--mine needs a logged in user (--as)")
			}
			assignee = u.ID
		}

		var tasks []types.Task
		switch {
		case flagTaskProject != "" && assignee != "":
			tasks = keepAssigned(store.ByProject(flagTaskProject), assignee)
		case flagTaskProject != "":
			tasks = store.ByProject(flagTaskProject)
		case assignee != "":
			tasks = store.ByAssignee(assignee)
		default:
			tasks = store.Tasks()
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), tasks)
		}
		return renderTasks(cmd.OutOrStdout(), tasks)
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a task with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := cachedTask(cmd, args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), t)
		}
		return renderTask(cmd.OutOrStdout(), t)
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagTaskProject == "" {
			return usageError("--project is required")
		}
		id, err := current.Stores.Tasks.Add(cmd.Context(), types.Task{
			Title:       args[0],
			Description: flagTaskDescription,
			Deadline:    flagTaskDeadline,
			ProjectID:   flagTaskProject,
			Status:      types.TaskStatus(flagTaskStatus),
			Assignees:   splitIDs(flagTaskAssign),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := cachedTask(cmd, args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			t.Title = flagTaskTitle
		}
		if flags.Changed("description") {
			t.Description = flagTaskDescription
		}
		if flags.Changed("deadline") {
			t.Deadline = flagTaskDeadline
		}
		if flags.Changed("project") {
			t.ProjectID = flagTaskProject
		}
		if err := current.Stores.Tasks.Update(cmd.Context(), t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", t.ID)
		return nil
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a task with its assignees and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Tasks.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move a task to new, in_progress, done or backlog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := types.TaskStatus(args[1])
		if err := current.Stores.Tasks.ChangeStatus(cmd.Context(), args[0], status); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], status)
		return nil
	},
}

var tasksAssignCmd = &cobra.Command{
	Use:   "assign ID USER_ID",
	Short: "Add an assignee to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := current.Stores.Assignees.Add(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.OutOrStdout(), "%s not assigned: already assigned or the task has %d assignees\n",
				args[1], types.MaxAssignees)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "assigned %s to %s\n", args[1], args[0])
		return nil
	},
}

var tasksUnassignCmd = &cobra.Command{
	Use:   "unassign ID USER_ID",
	Short: "Remove an assignee from a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Stores.Assignees.Remove(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unassigned %s from %s\n", args[1], args[0])
		return nil
	},
}

var tasksCommentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Comment on a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := current.Stores.Comments.Add(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

// cachedTask refreshes the task cache and returns the task with id.
func cachedTask(cmd *cobra.Command, id string) (types.Task, error) {
	store := current.Stores.Tasks
	if err := store.Refresh(cmd.Context()); err != nil {
		return types.Task{}, err
	}
	t := store.Get(id)
	if t == nil {
		return types.Task{}, notFound("task", id)
	}
	return *t, nil
}

func keepAssigned(tasks []types.Task, userID string) []types.Task {
	var out []types.Task
	for _, t := range tasks {
		if t.HasAssignee(userID) {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	tasksListCmd.Flags().StringVar(&flagTaskProject, "project", "", "only tasks of this project")
	tasksListCmd.Flags().StringVar(&flagTaskAssignee, "assignee", "", "only tasks assigned to this user id")
	tasksListCmd.Flags().BoolVar(&flagTaskMine, "mine", false, "only tasks assigned to the current user")

	tasksAddCmd.Flags().StringVar(&flagTaskProject, "project", "", "project id (required)")
	tasksAddCmd.Flags().StringVar(&flagTaskDescription, "description", "", "task description")
	tasksAddCmd.Flags().StringVar(&flagTaskDeadline, "deadline", "", "deadline, e.g. 2024-07-01")
	tasksAddCmd.Flags().StringVar(&flagTaskAssign, "assign", "", "comma-separated user ids, at most 3")
	tasksAddCmd.Flags().StringVar(&flagTaskStatus, "status", "", "initial status (default new)")

	tasksUpdateCmd.Flags().StringVar(&flagTaskTitle, "title", "", "new title")
	tasksUpdateCmd.Flags().StringVar(&flagTaskDescription, "description", "", "new description")
	tasksUpdateCmd.Flags().StringVar(&flagTaskDeadline, "deadline", "", "new deadline")
	tasksUpdateCmd.Flags().StringVar(&flagTaskProject, "project", "", "move to another project")

	tasksCmd.AddCommand(tasksListCmd, tasksShowCmd, tasksAddCmd, tasksUpdateCmd, tasksDeleteCmd,
		tasksStatusCmd, tasksAssignCmd, tasksUnassignCmd, tasksCommentCmd)
}
