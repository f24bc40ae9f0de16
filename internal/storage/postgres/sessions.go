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

type SessionRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewSessionRepository(logger zerolog.Logger, pgPool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

// ReplaceSessions deletes every session of the user and inserts the given
// one in a single transaction.
func (r *SessionRepository) ReplaceSessions(ctx context.Context, session *models.Session) error {
	err := inTx(ctx, r.pgPool, func(tx pgx.Tx) error {
		const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
       WHERE user_id = $1
`
		tag, err := tx.Exec(ctx, deleteSessionsByUserIDQuery, session.UserID)
		if err != nil {
			return err
		}
		r.logger.Debug().
			Str("user_id", session.UserID).
			Int64("affected", tag.RowsAffected()).
			Msg("deleted sessions by user id")

		const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
		_, err = tx.Exec(
			ctx,
			insertSessionQuery,
			session.ID,
			session.UserID,
			session.RefreshToken,
			session.ExpiresAt,
			session.CreatedAt,
			session.UpdatedAt,
		)
		return err
	})
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("user_id", session.UserID).
			Msg("failed to replace sessions")
		return err
	}
	r.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")
	return nil
}

func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	const selectSessionByIDQuery = `
SELECT id,
       user_id,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	return r.selectSession(ctx, selectSessionByIDQuery, sessionID)
}

func (r *SessionRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	const selectSessionByRefreshTokenQuery = `
SELECT id,
       user_id,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE refresh_token = $1
`
	return r.selectSession(ctx, selectSessionByRefreshTokenQuery, refreshToken)
}

func (r *SessionRepository) selectSession(ctx context.Context, query string, arg any) (*models.Session, error) {
	var session models.Session
	err := r.pgPool.QueryRow(ctx, query, arg).Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Msg("failed to select session")
		}
		return nil, err
	}
	r.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("selected session")
	return &session, nil
}

func (r *SessionRepository) RotateSession(
	ctx context.Context,
	sessionID string,
	refreshToken string,
	expiresAt time.Time,
	updatedAt time.Time,
) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := r.pgPool.Exec(
		ctx,
		updateSessionQuery,
		refreshToken,
		expiresAt,
		updatedAt,
		sessionID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to update session")
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	r.logger.Debug().
		Str("session_id", sessionID).
		Time("expires_at", expiresAt).
		Msg("updated session")
	return nil
}

func (r *SessionRepository) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
       WHERE user_id = $1
`
	tag, err := r.pgPool.Exec(ctx, deleteSessionsByUserIDQuery, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}
	r.logger.Debug().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted sessions by user id")
	return nil
}
