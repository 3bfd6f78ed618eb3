package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/dbx"
	"github.com/natorvoice/natorvoice/internal/server/models"
)

// PostgresRepository keeps clips in the clips table. The unique index on
// (user_id, md5(text), voice_id) turns a repeated script into an update that
// moves it to the front.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Clip, error) {
	query :=
		`SELECT id, text, voice_id, voice_name, chars, audio_key, created_at FROM clips
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, MaxClips)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]models.Clip, 0)
	for rows.Next() {
		var c models.Clip
		if err := rows.Scan(&c.ID, &c.Text, &c.VoiceID, &c.VoiceName, &c.Chars, &c.AudioKey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, clip models.Clip) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		upsert :=
			`INSERT INTO clips (id, user_id, text, voice_id, voice_name, chars, audio_key, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (user_id, md5(text), voice_id) DO UPDATE
			 SET id = EXCLUDED.id, voice_name = EXCLUDED.voice_name, chars = EXCLUDED.chars,
			     audio_key = EXCLUDED.audio_key, created_at = EXCLUDED.created_at`

		if _, err := tx.ExecContext(ctx, upsert,
			clip.ID, userID, clip.Text, clip.VoiceID, clip.VoiceName, clip.Chars, clip.AudioKey, clip.CreatedAt,
		); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		trim :=
			`DELETE FROM clips
			 WHERE user_id = $1 AND id NOT IN (
			     SELECT id FROM clips WHERE user_id = $1
			     ORDER BY created_at DESC, id DESC
			     LIMIT $2)`

		if _, err := tx.ExecContext(ctx, trim, userID, MaxClips); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, userID, clipID string) (*models.Clip, error) {
	query :=
		`SELECT id, text, voice_id, voice_name, chars, audio_key, created_at FROM clips
		 WHERE user_id = $1 AND id = $2`

	var c models.Clip
	err := r.db.QueryRowContext(ctx, query, userID, clipID).
		Scan(&c.ID, &c.Text, &c.VoiceID, &c.VoiceName, &c.Chars, &c.AudioKey, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}
