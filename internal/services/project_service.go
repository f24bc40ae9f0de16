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

type projectServiceImpl struct {
	logger   zerolog.Logger
	policy   *Policy
	projects ProjectRepository
}

func NewProjectService(
	logger zerolog.Logger,
	policy *Policy,
	projects ProjectRepository,
) ProjectService {
	return &projectServiceImpl{
		logger:   logger,
		policy:   policy,
		projects: projects,
	}
}

// loadProject is shared by every service that authorizes against a project.
func loadProject(ctx context.Context, projects ProjectRepository, projectID string) (*models.Project, error) {
	project, err := projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func mapUserReferenceError(err error) error {
	if errors.Is(err, storage.ErrInvalidReference) {
		return ErrInvalidUserID
	}
	return err
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := s.projects.ListProjectsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(projects)).
		Str("user_id", userID).
		Msg("listed projects")
	return projects, nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	params.Name = strings.TrimSpace(params.Name)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	memberIDs, err := normalizeUserIDs(params.MemberIDs)
	if err != nil {
		return nil, err
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ID:        projectUUID.String(),
		Name:      params.Name,
		CreatedBy: models.UserRef{ID: params.UserID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.projects.InsertProject(ctx, project, memberIDs)
	if err != nil {
		return nil, mapUserReferenceError(err)
	}

	created, err := loadProject(ctx, s.projects, project.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", params.UserID).
		Msg("created project")
	return created, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	project, err := loadProject(ctx, s.projects, projectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionViewProject, Subject{UserID: userID, Project: project})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectServiceImpl) RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error) {
	params.Name = strings.TrimSpace(params.Name)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionUpdateProject, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	err = s.projects.UpdateProjectName(ctx, project.ID, params.Name, time.Now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", params.UserID).
		Msg("renamed project")
	return loadProject(ctx, s.projects, project.ID)
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID string) error {
	project, err := loadProject(ctx, s.projects, projectID)
	if err != nil {
		return err
	}

	err = s.policy.Authorize(ActionDeleteProject, Subject{UserID: userID, Project: project})
	if err != nil {
		return err
	}

	err = s.projects.DeleteProject(ctx, project.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", userID).
		Msg("deleted project")
	return nil
}

func (s *projectServiceImpl) AddMembers(ctx context.Context, params AddMembersParams) ([]models.Member, error) {
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	memberIDs, err := normalizeUserIDs(params.MemberIDs)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(ctx, s.projects, params.ProjectID)
	if err != nil {
		return nil, err
	}

	err = s.policy.Authorize(ActionManageMembers, Subject{UserID: params.UserID, Project: project})
	if err != nil {
		return nil, err
	}

	err = s.projects.InsertMembers(ctx, project.ID, memberIDs, time.Now())
	if err != nil {
		return nil, mapUserReferenceError(err)
	}

	updated, err := loadProject(ctx, s.projects, project.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Int("added", len(memberIDs)).
		Msg("added project members")
	return updated.Members, nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, userID, projectID, memberID string) error {
	project, err := loadProject(ctx, s.projects, projectID)
	if err != nil {
		return err
	}

	err = s.policy.Authorize(ActionManageMembers, Subject{UserID: userID, Project: project})
	if err != nil {
		return err
	}

	if project.IsOwner(memberID) {
		return ErrCannotRemoveOwner
	}

	err = s.projects.DeleteMember(ctx, project.ID, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("member_id", memberID).
		Msg("removed project member")
	return nil
}
