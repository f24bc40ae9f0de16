package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type noteServiceImpl struct {
	logger   zerolog.Logger
	policy   *Policy
	projects ProjectRepository
	tasks    TaskRepository
	notes    NoteRepository
}

func NewNoteService(
	logger zerolog.Logger,
	policy *Policy,
	projects ProjectRepository,
	tasks TaskRepository,
	notes NoteRepository,
) NoteService {
	return &noteServiceImpl{
		logger:   logger,
		policy:   policy,
		projects: projects,
		tasks:    tasks,
		notes:    notes,
	}
}

func (s *noteServiceImpl) loadProjectNote(ctx context.Context, projectID string, noteID int64) (*models.Note, error) {
	note, err := s.notes.GetNoteByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if note.ProjectID != projectID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *noteServiceImpl) CreateNote(ctx context.Context, params CreateNoteParams) (*models.Note, error) {
	params.Body = strings.TrimSpace(params.Body)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionCreateNote, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	task, err := loadProjectTask(ctx, s.tasks, project.ID, params.TaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &models.Note{
		TaskID:    task.ID,
		Body:      params.Body,
		Author:    models.UserRef{ID: params.UserID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.notes.InsertNote(ctx, note)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidReference) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	created, err := s.loadProjectNote(ctx, project.ID, note.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("note_id", note.ID).
		Str("task_id", task.ID).
		Str("user_id", params.UserID).
		Msg("created note")
	return created, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error) {
	params.Body = strings.TrimSpace(params.Body)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	note, err := s.loadProjectNote(ctx, project.ID, params.NoteID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionUpdateNote, Subject{UserID: params.UserID, Project: project, Note: note})
	if err != nil {
		return nil, err
	}

	err = s.notes.UpdateNoteBody(ctx, note.ID, params.Body, time.Now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	updated, err := s.loadProjectNote(ctx, project.ID, note.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("note_id", note.ID).
		Str("user_id", params.UserID).
		Msg("updated note")
	return updated, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, params NoteParams) error {
	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return err
	}

	note, err := s.loadProjectNote(ctx, project.ID, params.NoteID)
	if err != nil {
		return err
	}

	err = s.policy.Authorize(ActionDeleteNote, Subject{UserID: params.UserID, Project: project, Note: note})
	if err != nil {
		return err
	}

	err = s.notes.DeleteNote(ctx, note.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	s.logger.Info().
		Int64("note_id", note.ID).
		Str("user_id", params.UserID).
		Msg("deleted note")
	return nil
}
