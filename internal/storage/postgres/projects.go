package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type ProjectRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectRepository(logger zerolog.Logger, pgPool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

// InsertProject stores the project and makes its creator and the given
// users members of it.
func (r *ProjectRepository) InsertProject(ctx context.Context, project *models.Project, memberIDs []string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const insertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      created_by,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5)
`
		_, err := tx.Exec(
			ctx,
			insertProjectQuery,
			project.ID,
			project.Name,
			project.CreatedBy.ID,
			project.CreatedAt,
			project.UpdatedAt,
		)
		if err != nil {
			return err
		}

		ids := append([]string{project.CreatedBy.ID}, memberIDs...)
		return insertMembers(ctx, tx, project.ID, ids, project.CreatedAt)
	})
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to insert project")
		return err
	}
	r.logger.Debug().
		Str("project_id", project.ID).
		Int("members", len(memberIDs)+1).
		Msg("inserted project")
	return nil
}

func insertMembers(ctx context.Context, q querier, projectID string, userIDs []string, joinedAt time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}

	const insertMembersQuery = `
INSERT INTO members (project_id,
                     user_id,
                     joined_at)
SELECT $1, u.id, $3
FROM unnest($2::uuid[]) AS u(id)
ON CONFLICT (project_id, user_id) DO NOTHING
`
	_, err := q.Exec(ctx, insertMembersQuery, projectID, userIDs, joinedAt)
	return err
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	const selectProjectQuery = `
SELECT p.id,
       p.name,
       p.created_by,
       u.username,
       p.created_at,
       p.updated_at
FROM projects p
         JOIN users u ON u.id = p.created_by
WHERE p.id = $1
`
	var project models.Project
	err := r.pgPool.QueryRow(ctx, selectProjectQuery, projectID).Scan(
		&project.ID,
		&project.Name,
		&project.CreatedBy.ID,
		&project.CreatedBy.Username,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Str("project_id", projectID).
				Msg("failed to select project")
		}
		return nil, err
	}

	members, err := r.selectMembers(ctx, []string{project.ID})
	if err != nil {
		return nil, err
	}
	project.Members = members[project.ID]

	r.logger.Debug().
		Str("project_id", project.ID).
		Int("members", len(project.Members)).
		Msg("selected project")
	return &project, nil
}

// ListProjectsByMember returns every project the user is a member of, with
// members and task ids attached, newest first.
func (r *ProjectRepository) ListProjectsByMember(ctx context.Context, userID string) ([]*models.Project, error) {
	const selectProjectsByMemberQuery = `
SELECT p.id,
       p.name,
       p.created_by,
       u.username,
       p.created_at,
       p.updated_at,
       COALESCE(ARRAY(SELECT t.id::text
                      FROM tasks t
                      WHERE t.project_id = p.id
                      ORDER BY t.created_at), '{}')
FROM projects p
         JOIN users u ON u.id = p.created_by
         JOIN members m ON m.project_id = p.id
WHERE m.user_id = $1
ORDER BY p.created_at DESC
`
	rows, err := r.pgPool.Query(ctx, selectProjectsByMemberQuery, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects by member")
		return nil, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	ids := make([]string, 0)
	for rows.Next() {
		project := new(models.Project)
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.CreatedBy.ID,
			&project.CreatedBy.Username,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.TaskIDs,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
		ids = append(ids, project.ID)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	members, err := r.selectMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		project.Members = members[project.ID]
	}

	r.logger.Debug().
		Int("count", len(projects)).
		Str("user_id", userID).
		Msg("selected projects by member")
	return projects, nil
}

func (r *ProjectRepository) selectMembers(ctx context.Context, projectIDs []string) (map[string][]models.Member, error) {
	members := make(map[string][]models.Member, len(projectIDs))
	if len(projectIDs) == 0 {
		return members, nil
	}

	const selectMembersQuery = `
SELECT m.id,
       m.project_id,
       m.user_id,
       u.username,
       m.joined_at
FROM members m
         JOIN users u ON u.id = m.user_id
WHERE m.project_id = ANY ($1::uuid[])
ORDER BY m.joined_at, m.id
`
	rows, err := r.pgPool.Query(ctx, selectMembersQuery, projectIDs)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select members")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var member models.Member
		err = rows.Scan(
			&member.ID,
			&member.ProjectID,
			&member.User.ID,
			&member.User.Username,
			&member.JoinedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan member")
			return nil, err
		}
		members[member.ProjectID] = append(members[member.ProjectID], member)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return members, nil
}

func (r *ProjectRepository) UpdateProjectName(ctx context.Context, projectID, name string, updatedAt time.Time) error {
	const updateProjectQuery = `
UPDATE projects
SET name = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := r.pgPool.Exec(ctx, updateProjectQuery, name, updatedAt, projectID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to update project")
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	r.logger.Debug().
		Str("project_id", projectID).
		Msg("updated project")
	return nil
}

// DeleteProject removes the project together with its tasks, their notes
// and assignees, and its members.
func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const deleteProjectNotesQuery = `
DELETE FROM notes
       WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
`
		const deleteProjectAssignedQuery = `
DELETE FROM assigned
       WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
`
		const deleteProjectTasksQuery = `
DELETE FROM tasks
       WHERE project_id = $1
`
		const deleteProjectMembersQuery = `
DELETE FROM members
       WHERE project_id = $1
`
		for _, query := range []string{
			deleteProjectNotesQuery,
			deleteProjectAssignedQuery,
			deleteProjectTasksQuery,
			deleteProjectMembersQuery,
		} {
			_, err := tx.Exec(ctx, query, projectID)
			if err != nil {
				return err
			}
		}

		const deleteProjectQuery = `
DELETE FROM projects
       WHERE id = $1
`
		tag, err := tx.Exec(ctx, deleteProjectQuery, projectID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		return err
	}
	r.logger.Debug().
		Str("project_id", projectID).
		Msg("deleted project")
	return nil
}

func (r *ProjectRepository) InsertMembers(ctx context.Context, projectID string, userIDs []string, joinedAt time.Time) error {
	err := insertMembers(ctx, r.pgPool, projectID, userIDs, joinedAt)
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to insert members")
		return err
	}
	r.logger.Debug().
		Str("project_id", projectID).
		Int("count", len(userIDs)).
		Msg("inserted members")
	return nil
}

// DeleteMember removes the membership and the user's assignments to tasks
// of the project.
func (r *ProjectRepository) DeleteMember(ctx context.Context, projectID, userID string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const deleteMemberAssignedQuery = `
DELETE FROM assigned
       WHERE user_id = $2
         AND task_id IN (SELECT id FROM tasks WHERE project_id = $1)
`
		_, err := tx.Exec(ctx, deleteMemberAssignedQuery, projectID, userID)
		if err != nil {
			return err
		}

		const deleteMemberQuery = `
DELETE FROM members
       WHERE project_id = $1
         AND user_id = $2
`
		tag, err := tx.Exec(ctx, deleteMemberQuery, projectID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Str("project_id", projectID).
				Str("user_id", userID).
				Msg("failed to delete member")
		}
		return err
	}
	r.logger.Debug().
		Str("project_id", projectID).
		Str("user_id", userID).
		Msg("deleted member")
	return nil
}
