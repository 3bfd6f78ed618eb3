package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, identity, day string) (int, error) {
	query :=
		`SELECT used FROM usage_daily
		 WHERE identity = $1 AND day = $2`

	var used int
	err := r.db.QueryRowContext(ctx, query, identity, day).Scan(&used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return used, nil
}

func (r *PostgresRepository) Increment(ctx context.Context, identity, day string, n int) (int, error) {
	query :=
		`INSERT INTO usage_daily (identity, day, used)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (identity, day) DO UPDATE
		 SET used = usage_daily.used + EXCLUDED.used
		 RETURNING used`

	var used int
	if err := r.db.QueryRowContext(ctx, query, identity, day, n).Scan(&used); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return used, nil
}

func (r *PostgresRepository) IncrementWithin(ctx context.Context, identity, day string, n, limit int) (int, bool, error) {
	if n > limit {
		used, err := r.Get(ctx, identity, day)
		return used, false, err
	}

	query :=
		`INSERT INTO usage_daily (identity, day, used)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (identity, day) DO UPDATE
		 SET used = usage_daily.used + EXCLUDED.used
		 WHERE usage_daily.used + EXCLUDED.used <= $4
		 RETURNING used`

	var used int
	err := r.db.QueryRowContext(ctx, query, identity, day, n, limit).Scan(&used)
	if err == nil {
		return used, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("db error: %w", err)
	}

	used, err = r.Get(ctx, identity, day)
	return used, false, err
}
