package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Source using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Source backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Fetch retrieves a single team by its identifier.
func (r *PostgresRepository) Fetch(ctx context.Context, teamID string) (*Record, error) {
	query := `
		SELECT id, name, COALESCE(translations, '{}'::jsonb)
		FROM teams
		WHERE id = $1`

	var rec Record
	err := r.pool.QueryRow(ctx, query, teamID).Scan(&rec.ID, &rec.Name, &rec.Translations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &rec, nil
}

// Upsert inserts or replaces a team row. Nothing in the server writes teams;
// this exists for seeding and fixtures.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO teams (id, name, translations)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, translations = EXCLUDED.translations, updated_at = now()`

	translations := rec.Translations
	if translations == nil {
		translations = map[string]string{}
	}

	if _, err := r.pool.Exec(ctx, query, rec.ID, rec.Name, translations); err != nil {
		return fmt.Errorf("upserting team: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
