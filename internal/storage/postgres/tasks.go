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

type TaskRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskRepository(logger zerolog.Logger, pgPool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

// The WHERE clause is appended by the callers; $1 is their only argument.
const selectJoinedTasksQuery = `
SELECT t.id,
       t.project_id,
       t.title,
       t.description,
       t.priority,
       t.is_resolved,
       t.created_at,
       t.updated_at,
       t.closed_at,
       t.reopened_at,
       cb.id,
       cb.username,
       ub.id,
       ub.username,
       clb.id,
       clb.username,
       rb.id,
       rb.username
FROM tasks t
         JOIN users cb ON cb.id = t.created_by
         LEFT JOIN users ub ON ub.id = t.updated_by
         LEFT JOIN users clb ON clb.id = t.closed_by
         LEFT JOIN users rb ON rb.id = t.reopened_by
`

const selectJoinedNotesQuery = `
SELECT n.id,
       n.task_id,
       n.body,
       n.created_at,
       n.updated_at,
       a.id,
       a.username,
       t.project_id
FROM notes n
         JOIN users a ON a.id = n.author_id
         JOIN tasks t ON t.id = n.task_id
`

const selectJoinedAssignedQuery = `
SELECT s.id,
       s.task_id,
       s.joined_at,
       u.id,
       u.username
FROM assigned s
         JOIN users u ON u.id = s.user_id
         JOIN tasks t ON t.id = s.task_id
`

func (r *TaskRepository) ListTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	tasks, err := loadTasks(ctx, r.pgPool, "WHERE t.project_id = $1", projectID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select tasks by project id")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Str("project_id", projectID).
		Msg("selected tasks by project id")
	return tasks, nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	tasks, err := loadTasks(ctx, r.pgPool, "WHERE t.id = $1", taskID)
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, storage.ErrNotFound
	}
	r.logger.Debug().
		Str("task_id", taskID).
		Msg("selected task by id")
	return tasks[0], nil
}

func loadTasks(ctx context.Context, q querier, where string, arg any) ([]*models.Task, error) {
	rows, err := q.Query(ctx, selectJoinedTasksQuery+where+"\nORDER BY t.created_at, t.id", arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	byID := make(map[string]*models.Task)
	for rows.Next() {
		task := new(models.Task)
		var (
			updatedByID, updatedByName   *string
			closedByID, closedByName     *string
			reopenedByID, reopenedByName *string
		)
		err = rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.IsResolved,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.ClosedAt,
			&task.ReopenedAt,
			&task.CreatedBy.ID,
			&task.CreatedBy.Username,
			&updatedByID,
			&updatedByName,
			&closedByID,
			&closedByName,
			&reopenedByID,
			&reopenedByName,
		)
		if err != nil {
			return nil, err
		}
		task.UpdatedBy = userRef(updatedByID, updatedByName)
		task.ClosedBy = userRef(closedByID, closedByName)
		task.ReopenedBy = userRef(reopenedByID, reopenedByName)
		task.Notes = make([]models.Note, 0)
		task.Assigned = make([]models.Assigned, 0)

		tasks = append(tasks, task)
		byID[task.ID] = task
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	noteRows, err := q.Query(ctx, selectJoinedNotesQuery+where+"\nORDER BY n.created_at, n.id", arg)
	if err != nil {
		return nil, err
	}
	defer noteRows.Close()

	for noteRows.Next() {
		var note models.Note
		err = noteRows.Scan(
			&note.ID,
			&note.TaskID,
			&note.Body,
			&note.CreatedAt,
			&note.UpdatedAt,
			&note.Author.ID,
			&note.Author.Username,
			&note.ProjectID,
		)
		if err != nil {
			return nil, err
		}
		if task, ok := byID[note.TaskID]; ok {
			task.Notes = append(task.Notes, note)
		}
	}
	err = noteRows.Err()
	if err != nil {
		return nil, err
	}

	assignedRows, err := q.Query(ctx, selectJoinedAssignedQuery+where+"\nORDER BY s.joined_at, s.id", arg)
	if err != nil {
		return nil, err
	}
	defer assignedRows.Close()

	for assignedRows.Next() {
		var assigned models.Assigned
		err = assignedRows.Scan(
			&assigned.ID,
			&assigned.TaskID,
			&assigned.JoinedAt,
			&assigned.User.ID,
			&assigned.User.Username,
		)
		if err != nil {
			return nil, err
		}
		if task, ok := byID[assigned.TaskID]; ok {
			task.Assigned = append(task.Assigned, assigned)
		}
	}
	err = assignedRows.Err()
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func userRef(id, username *string) *models.UserRef {
	if id == nil {
		return nil
	}
	ref := &models.UserRef{ID: *id}
	if username != nil {
		ref.Username = *username
	}
	return ref
}

// ListAllTasks returns every task without joins.
func (r *TaskRepository) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	const selectAllTasksQuery = `
SELECT id,
       project_id,
       title,
       description,
       priority,
       is_resolved,
       created_by,
       updated_by,
       closed_by,
       closed_at,
       reopened_by,
       reopened_at,
       created_at,
       updated_at
FROM tasks
ORDER BY created_at, id
`
	rows, err := r.pgPool.Query(ctx, selectAllTasksQuery)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select all tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := new(models.Task)
		var updatedByID, closedByID, reopenedByID *string
		err = rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.IsResolved,
			&task.CreatedBy.ID,
			&updatedByID,
			&closedByID,
			&task.ClosedAt,
			&reopenedByID,
			&task.ReopenedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		task.UpdatedBy = userRef(updatedByID, nil)
		task.ClosedBy = userRef(closedByID, nil)
		task.ReopenedBy = userRef(reopenedByID, nil)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected all tasks")
	return tasks, nil
}

// InsertTask stores a new task and its assignees in one transaction.
func (r *TaskRepository) InsertTask(ctx context.Context, task *models.Task, assigneeIDs []string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const insertTaskQuery = `
INSERT INTO tasks (id,
                   project_id,
                   title,
                   description,
                   priority,
                   is_resolved,
                   created_by,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
		_, err := tx.Exec(
			ctx,
			insertTaskQuery,
			task.ID,
			task.ProjectID,
			task.Title,
			task.Description,
			task.Priority,
			task.IsResolved,
			task.CreatedBy.ID,
			task.CreatedAt,
		)
		if err != nil {
			return err
		}
		return insertAssigned(ctx, tx, task.ID, assigneeIDs, task.CreatedAt)
	})
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("project_id", task.ProjectID).
			Msg("failed to insert task")
		return err
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Int("assigned", len(assigneeIDs)).
		Msg("inserted task")
	return nil
}

func insertAssigned(ctx context.Context, q querier, taskID string, userIDs []string, joinedAt time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}

	const insertAssignedQuery = `
INSERT INTO assigned (task_id,
                      user_id,
                      joined_at)
SELECT $1, u.id, $3
FROM unnest($2::uuid[]) AS u(id)
ON CONFLICT (task_id, user_id) DO NOTHING
`
	_, err := q.Exec(ctx, insertAssignedQuery, taskID, userIDs, joinedAt)
	return err
}

// UpdateTask overwrites the editable fields of the task and replaces its
// assignee set wholesale.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    priority = $3,
    updated_by = $4,
    updated_at = $5
WHERE id = $6
`
		var updatedByID *string
		if task.UpdatedBy != nil {
			updatedByID = &task.UpdatedBy.ID
		}
		tag, err := tx.Exec(
			ctx,
			updateTaskQuery,
			task.Title,
			task.Description,
			task.Priority,
			updatedByID,
			task.UpdatedAt,
			task.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}

		const deleteAssignedQuery = `
DELETE FROM assigned
       WHERE task_id = $1
`
		_, err = tx.Exec(ctx, deleteAssignedQuery, task.ID)
		if err != nil {
			return err
		}

		joinedAt := task.CreatedAt
		if task.UpdatedAt != nil {
			joinedAt = *task.UpdatedAt
		}
		return insertAssigned(ctx, tx, task.ID, assigneeIDs, joinedAt)
	})
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Int("assigned", len(assigneeIDs)).
		Msg("updated task")
	return nil
}

// UpdateTaskStatus locks the task row, lets apply mutate the status fields
// and writes them back. An error from apply aborts the transaction.
func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, taskID string, apply func(task *models.Task) error) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const selectTaskStatusForUpdateQuery = `
SELECT is_resolved,
       closed_by,
       closed_at,
       reopened_by,
       reopened_at
FROM tasks
WHERE id = $1
FOR UPDATE
`
		task := &models.Task{ID: taskID}
		var closedByID, reopenedByID *string
		err := tx.QueryRow(ctx, selectTaskStatusForUpdateQuery, taskID).Scan(
			&task.IsResolved,
			&closedByID,
			&task.ClosedAt,
			&reopenedByID,
			&task.ReopenedAt,
		)
		if err != nil {
			return err
		}
		task.ClosedBy = userRef(closedByID, nil)
		task.ReopenedBy = userRef(reopenedByID, nil)

		err = apply(task)
		if err != nil {
			return err
		}

		const updateTaskStatusQuery = `
UPDATE tasks
SET is_resolved = $1,
    closed_by = $2,
    closed_at = $3,
    reopened_by = $4,
    reopened_at = $5
WHERE id = $6
`
		_, err = tx.Exec(
			ctx,
			updateTaskStatusQuery,
			task.IsResolved,
			refID(task.ClosedBy),
			task.ClosedAt,
			refID(task.ReopenedBy),
			task.ReopenedAt,
			task.ID,
		)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrTaskAlreadyClosed) || errors.Is(err, models.ErrTaskAlreadyOpened) {
			return err
		}
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Str("task_id", taskID).
				Msg("failed to update task status")
		}
		return err
	}
	r.logger.Debug().
		Str("task_id", taskID).
		Msg("updated task status")
	return nil
}

func refID(ref *models.UserRef) *string {
	if ref == nil {
		return nil
	}
	return &ref.ID
}

// DeleteTask removes the task after its notes and assignees.
func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const deleteTaskNotesQuery = `
DELETE FROM notes
       WHERE task_id = $1
`
		_, err := tx.Exec(ctx, deleteTaskNotesQuery, taskID)
		if err != nil {
			return err
		}

		const deleteTaskAssignedQuery = `
DELETE FROM assigned
       WHERE task_id = $1
`
		_, err = tx.Exec(ctx, deleteTaskAssignedQuery, taskID)
		if err != nil {
			return err
		}

		const deleteTaskQuery = `
DELETE FROM tasks
       WHERE id = $1
`
		tag, err := tx.Exec(ctx, deleteTaskQuery, taskID)
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
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	r.logger.Debug().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}
