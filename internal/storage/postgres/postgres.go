// Package postgres implements the tracker repositories on top of pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, logger zerolog.Logger, pgPool *pgxpool.Pool) error {
	_, err := pgPool.Exec(ctx, schema)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to apply schema")
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info().Msg("applied schema")
	return nil
}

// inTx runs fn inside a transaction that is committed only if fn succeeds.
func inTx(ctx context.Context, pgPool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pgPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(tx)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// classify translates driver errors into storage sentinels.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrInvalidReference, pgErr.ConstraintName)
		case pgerrcode.InvalidTextRepresentation:
			return storage.ErrNotFound
		}
	}
	return err
}
