package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  UserRepository
}

func NewUserService(logger zerolog.Logger, users UserRepository) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]models.UserRef, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(users)).
		Msg("listed users")
	return users, nil
}
