package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-task-tracker/internal/client"
	"github.com/adanyl0v/go-task-tracker/internal/store"
)

var priorities = []client.Priority{client.PriorityLow, client.PriorityMedium, client.PriorityHigh}

func newTasksCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage project tasks",
	}
	cmd.AddCommand(
		newTasksListCommand(s),
		newTasksShowCommand(s),
		newTasksDoneCommand(s),
		newTasksCreateCommand(s),
		newTasksEditCommand(s),
		newTasksStatusCommand(s, "close", "Close a task"),
		newTasksStatusCommand(s, "reopen", "Re-open a closed task"),
		newTasksDeleteCommand(s),
	)
	return cmd
}

func projectFlag(cmd *cobra.Command, projectID *string) {
	cmd.Flags().StringVar(projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")
}

func newTasksListCommand(s *session) *cobra.Command {
	var projectID, sortBy, filterBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by, filter := store.TaskSort(sortBy), store.TaskFilter(filterBy)
			if !slices.Contains(store.TaskSorts, by) {
				return fmt.Errorf("unknown sort %q, want one of %v", sortBy, store.TaskSorts)
			}
			if !slices.Contains(store.TaskFilters, filter) {
				return fmt.Errorf("unknown filter %q, want one of %v", filterBy, store.TaskFilters)
			}

			st := s.newStore()
			st.Dispatch(store.SortTasksBy{SortBy: by})
			st.Dispatch(store.FilterTasksBy{FilterBy: filter})
			if err := st.FetchTasks(cmd.Context(), projectID); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(s.out, s.styles.renderTasks(store.VisibleTasks(st.State(), projectID)))
			return nil
		},
	}
	projectFlag(cmd, &projectID)
	cmd.Flags().StringVar(&sortBy, "sort", string(store.SortNewest), "Sort order")
	cmd.Flags().StringVar(&filterBy, "filter", string(store.FilterAll), "Show all, open or closed tasks")
	return cmd
}

func newTasksShowCommand(s *session) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := s.newStore()
			if err := st.FetchTasks(cmd.Context(), projectID); err != nil {
				return err
			}

			task, ok := store.TaskByID(st.State(), projectID, args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}

			_, _ = fmt.Fprintln(s.out, s.styles.renderTask(task))
			return nil
		},
	}
	projectFlag(cmd, &projectID)
	return cmd
}

func newTasksDoneCommand(s *session) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "done",
		Short: "List closed tasks across all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by := store.TaskSort(sortBy)
			if !slices.Contains(store.TaskSorts, by) {
				return fmt.Errorf("unknown sort %q, want one of %v", sortBy, store.TaskSorts)
			}

			st := s.newStore()
			if err := st.FetchTasksDone(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(s.out, s.styles.renderTasks(store.SortTasks(st.State().TasksDone, by)))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", string(store.SortClosed), "Sort order")
	return cmd
}

type taskFlags struct {
	title       string
	description string
	priority    string
	assignees   []string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "Task title")
	flags.StringVar(&f.description, "description", "", "Task description")
	flags.StringVar(&f.priority, "priority", string(client.PriorityLow), "low, medium or high")
	flags.StringSliceVar(&f.assignees, "assign", nil, "User id to assign (repeatable)")
}

func (f *taskFlags) validPriority() error {
	if !slices.Contains(priorities, client.Priority(f.priority)) {
		return fmt.Errorf("unknown priority %q, want one of %v", f.priority, priorities)
	}
	return nil
}

func newTasksCreateCommand(s *session) *cobra.Command {
	var (
		projectID string
		f         taskFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a task to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validPriority(); err != nil {
				return err
			}

			return s.newStore().CreateTask(cmd.Context(), projectID, client.TaskPayload{
				Title:         f.title,
				Description:   f.description,
				Priority:      client.Priority(f.priority),
				AssignedUsers: f.assignees,
			})
		},
	}
	projectFlag(cmd, &projectID)
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksEditCommand(s *session) *cobra.Command {
	var (
		projectID string
		f         taskFlags
		unassign  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := s.newStore()
			if err := st.FetchTasks(cmd.Context(), projectID); err != nil {
				return err
			}
			task, ok := store.TaskByID(st.State(), projectID, args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}

			payload := editPayload(cmd, task, f)
			if unassign {
				payload.AssignedUsers = []string{}
			}
			f.priority = string(payload.Priority)
			if err := f.validPriority(); err != nil {
				return err
			}

			return st.EditTask(cmd.Context(), projectID, task.ID, payload)
		},
	}
	projectFlag(cmd, &projectID)
	f.register(cmd)
	cmd.Flags().BoolVar(&unassign, "unassign-all", false, "Remove every assignee")
	return cmd
}

// editPayload starts from the task's current values and applies the flags
// the user set.
func editPayload(cmd *cobra.Command, task client.Task, f taskFlags) client.TaskPayload {
	payload := client.TaskPayload{
		Title:         task.Title,
		Description:   task.Description,
		Priority:      task.Priority,
		AssignedUsers: make([]string, 0, len(task.AssignedUsers)),
	}
	for _, a := range task.AssignedUsers {
		payload.AssignedUsers = append(payload.AssignedUsers, a.User.ID)
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		payload.Title = f.title
	}
	if flags.Changed("description") {
		payload.Description = f.description
	}
	if flags.Changed("priority") {
		payload.Priority = client.Priority(f.priority)
	}
	if flags.Changed("assign") {
		payload.AssignedUsers = f.assignees
	}
	return payload
}

func newTasksStatusCommand(s *session, action, short string) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   action + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := s.newStore().ToggleTaskStatus(cmd.Context(), projectID, args[0], action)
			return reported(err)
		},
	}
	projectFlag(cmd, &projectID)
	return cmd
}

func newTasksDeleteCommand(s *session) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(s.newStore().DeleteTask(cmd.Context(), projectID, args[0]))
		},
	}
	projectFlag(cmd, &projectID)
	return cmd
}
