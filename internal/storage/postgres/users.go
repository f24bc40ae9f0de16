package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type UserRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewUserRepository(logger zerolog.Logger, pgPool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *UserRepository) InsertUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   username,
                   email,
                   name,
                   password_hash,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pgPool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Username,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to insert user")
		return err
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id,
       username,
       email,
       name,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	return r.selectUser(ctx, selectUserByIDQuery, userID)
}

// GetUserByLogin looks the user up by username or email, ignoring case.
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const selectUserByLoginQuery = `
SELECT id,
       username,
       email,
       name,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE lower(username) = lower($1)
   OR lower(email) = lower($1)
LIMIT 1
`
	return r.selectUser(ctx, selectUserByLoginQuery, login)
}

func (r *UserRepository) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.pgPool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Msg("failed to select user")
		}
		return nil, err
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user")
	return &user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const usernameExistsQuery = `
SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))
`
	return r.exists(ctx, usernameExistsQuery, username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const emailExistsQuery = `
SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))
`
	return r.exists(ctx, emailExistsQuery, email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	err := r.pgPool.QueryRow(ctx, query, arg).Scan(&exists)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to check user existence")
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.UserRef, error) {
	const selectUsersQuery = `
SELECT id,
       username
FROM users
ORDER BY lower(username)
`
	rows, err := r.pgPool.Query(ctx, selectUsersQuery)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	users := make([]models.UserRef, 0)
	for rows.Next() {
		var user models.UserRef
		err = rows.Scan(&user.ID, &user.Username)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	return users, nil
}
