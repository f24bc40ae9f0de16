package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	policy   *Policy
	projects ProjectRepository
	tasks    TaskRepository
}

func NewTaskService(
	logger zerolog.Logger,
	policy *Policy,
	projects ProjectRepository,
	tasks TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		policy:   policy,
		projects: projects,
		tasks:    tasks,
	}
}

// loadProjectTask returns the task if it exists and belongs to the project.
func loadProjectTask(ctx context.Context, tasks TaskRepository, projectID, taskID string) (*models.Task, error) {
	task, err := tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID, projectID string) ([]*models.Task, error) {
	project, err := loadProject(ctx, s.projects, projectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionListTasks, Subject{UserID: userID, Project: project})
	if err != nil {
		s.logger.Info().
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("access denied to project tasks")
		return nil, err
	}

	tasks, err := s.tasks.ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("project_id", projectID).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.tasks.ListAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("listed all tasks")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	assigneeIDs, err := normalizeUserIDs(params.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionCreateTask, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	task := &models.Task{
		ID:          taskUUID.String(),
		ProjectID:   project.ID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		IsResolved:  false,
		CreatedBy:   models.UserRef{ID: params.UserID},
		CreatedAt:   time.Now(),
	}

	err = s.tasks.InsertTask(ctx, task, assigneeIDs)
	if err != nil {
		return nil, mapUserReferenceError(err)
	}

	created, err := loadProjectTask(ctx, s.tasks, project.ID, task.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", project.ID).
		Str("user_id", params.UserID).
		Msg("created task")
	return created, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	assigneeIDs, err := normalizeUserIDs(params.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionUpdateTask, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	task, err := loadProjectTask(ctx, s.tasks, project.ID, params.TaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task.Title = params.Title
	task.Description = params.Description
	task.Priority = params.Priority
	task.UpdatedBy = &models.UserRef{ID: params.UserID}
	task.UpdatedAt = &now

	err = s.tasks.UpdateTask(ctx, task, assigneeIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, mapUserReferenceError(err)
	}

	updated, err := loadProjectTask(ctx, s.tasks, project.ID, task.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.UserID).
		Int("assigned", len(assigneeIDs)).
		Msg("updated task")
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskParams) error {
	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return err
	}

	task, err := loadProjectTask(ctx, s.tasks, project.ID, params.TaskID)
	if err != nil {
		return err
	}

	err = s.policy.Authorize(ActionDeleteTask, Subject{UserID: params.UserID, Project: project, Task: task})
	if err != nil {
		return err
	}

	err = s.tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) CloseTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	return s.changeStatus(ctx, ActionCloseTask, params, func(task *models.Task) error {
		return task.Close(models.UserRef{ID: params.UserID}, time.Now())
	})
}

func (s *taskServiceImpl) ReopenTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	return s.changeStatus(ctx, ActionReopenTask, params, func(task *models.Task) error {
		return task.Reopen(models.UserRef{ID: params.UserID}, time.Now())
	})
}

func (s *taskServiceImpl) changeStatus(
	ctx context.Context,
	action Action,
	params TaskParams,
	apply func(task *models.Task) error,
) (*models.Task, error) {
	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(action, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	task, err := loadProjectTask(ctx, s.tasks, project.ID, params.TaskID)
	if err != nil {
		return nil, err
	}

	err = s.tasks.UpdateTaskStatus(ctx, task.ID, apply)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Info().
			Err(err).
			Str("task_id", task.ID).
			Str("action", string(action)).
			Msg("task status unchanged")
		return nil, err
	}

	updated, err := loadProjectTask(ctx, s.tasks, project.ID, task.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", params.UserID).
		Bool("is_resolved", updated.IsResolved).
		Msg("changed task status")
	return updated, nil
}
