package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newNotesCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage task notes",
	}
	cmd.AddCommand(
		newNotesAddCommand(s),
		newNotesEditCommand(s),
		newNotesDeleteCommand(s),
	)
	return cmd
}

func noteFlags(cmd *cobra.Command, projectID, taskID *string) {
	projectFlag(cmd, projectID)
	cmd.Flags().StringVar(taskID, "task", "", "Task id")
	_ = cmd.MarkFlagRequired("task")
}

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

func newNotesAddCommand(s *session) *cobra.Command {
	var projectID, taskID string

	cmd := &cobra.Command{
		Use:   "add <body>",
		Short: "Add a note to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.newStore().CreateNote(cmd.Context(), projectID, taskID, args[0])
		},
	}
	noteFlags(cmd, &projectID, &taskID)
	return cmd
}

func newNotesEditCommand(s *session) *cobra.Command {
	var projectID, taskID string

	cmd := &cobra.Command{
		Use:   "edit <note-id> <body>",
		Short: "Edit a note you wrote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return s.newStore().EditNote(cmd.Context(), projectID, taskID, noteID, args[1])
		},
	}
	noteFlags(cmd, &projectID, &taskID)
	return cmd
}

func newNotesDeleteCommand(s *session) *cobra.Command {
	var projectID, taskID string

	cmd := &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return reported(s.newStore().DeleteNote(cmd.Context(), projectID, taskID, noteID))
		},
	}
	noteFlags(cmd, &projectID, &taskID)
	return cmd
}
