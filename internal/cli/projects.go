package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-task-tracker/internal/client"
	"github.com/adanyl0v/go-task-tracker/internal/store"
)

func newProjectsCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectsListCommand(s),
		newProjectsCreateCommand(s),
		newProjectsDeleteCommand(s),
	)
	return cmd
}

func newProjectsListCommand(s *session) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects you are a member of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by := store.ProjectSort(sortBy)
			if !slices.Contains(store.ProjectSorts, by) {
				return fmt.Errorf("unknown sort %q, want one of %v", sortBy, store.ProjectSorts)
			}

			projects, err := s.api.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(s.out, s.styles.renderProjects(store.SortProjects(projects, by)))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", string(store.ProjectSortNewest), "Sort order")
	return cmd
}

func newProjectsCreateCommand(s *session) *cobra.Command {
	var members []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := s.api.CreateProject(cmd.Context(), client.ProjectPayload{
				Name:    args[0],
				Members: members,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(s.out, s.styles.success.Render("Created project "+project.Name+" ("+project.ID+")."))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&members, "member", nil, "User id to add as a member (repeatable)")
	return cmd
}

func newProjectsDeleteCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.api.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(s.out, s.styles.success.Render("Deleted the project."))
			return nil
		},
	}
}
