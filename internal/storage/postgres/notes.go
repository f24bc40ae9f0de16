package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type NoteRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewNoteRepository(logger zerolog.Logger, pgPool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

// InsertNote stores the note and sets its generated id.
func (r *NoteRepository) InsertNote(ctx context.Context, note *models.Note) error {
	const insertNoteQuery = `
INSERT INTO notes (task_id,
                   body,
                   author_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertNoteQuery,
		note.TaskID,
		note.Body,
		note.Author.ID,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Err(err).
			Str("task_id", note.TaskID).
			Msg("failed to insert note")
		return err
	}
	r.logger.Debug().
		Int64("note_id", note.ID).
		Msg("inserted note")
	return nil
}

func (r *NoteRepository) GetNoteByID(ctx context.Context, noteID int64) (*models.Note, error) {
	var note models.Note
	err := r.pgPool.QueryRow(
		ctx,
		selectJoinedNotesQuery+"WHERE n.id = $1",
		noteID,
	).Scan(
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
		err = classify(err)
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().
				Err(err).
				Int64("note_id", noteID).
				Msg("failed to select note")
		}
		return nil, err
	}
	r.logger.Debug().
		Int64("note_id", note.ID).
		Msg("selected note")
	return &note, nil
}

func (r *NoteRepository) UpdateNoteBody(ctx context.Context, noteID int64, body string, updatedAt time.Time) error {
	const updateNoteQuery = `
UPDATE notes
SET body = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := r.pgPool.Exec(ctx, updateNoteQuery, body, updatedAt, noteID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("note_id", noteID).
			Msg("failed to update note")
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	r.logger.Debug().
		Int64("note_id", noteID).
		Msg("updated note")
	return nil
}

func (r *NoteRepository) DeleteNote(ctx context.Context, noteID int64) error {
	const deleteNoteQuery = `
DELETE FROM notes
       WHERE id = $1
`
	tag, err := r.pgPool.Exec(ctx, deleteNoteQuery, noteID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("note_id", noteID).
			Msg("failed to delete note")
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	r.logger.Debug().
		Int64("note_id", noteID).
		Msg("deleted note")
	return nil
}
