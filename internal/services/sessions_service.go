package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type sessionServiceImpl struct {
	logger   zerolog.Logger
	sessions SessionRepository
}

func NewSessionService(
	logger zerolog.Logger,
	sessions SessionRepository,
) SessionService {
	return &sessionServiceImpl{
		logger:   logger,
		sessions: sessions,
	}
}

func (s *sessionServiceImpl) GetActiveSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Str("session_id", sessionID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		s.logger.Info().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	s.logger.Debug().
		Str("session_id", session.ID).
		Msg("session found")
	return session, nil
}
