package store

import (
	"context"
	"errors"

	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	kind           text        NOT NULL,
	id             text        NOT NULL,
	user_id        uuid        NOT NULL,
	destination_id text        NOT NULL DEFAULT '',
	payload        jsonb       NOT NULL,
	updated_at     timestamptz NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS records_kind_user_idx ON records (kind, user_id);
`

// Postgres persists store records in a single document table. The engine
// only ever needs point lookups and per-user scans, so one envelope table
// keeps the adapter honest about the "simple get/set/query" contract.
type Postgres struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func NewPostgres(pool *pgxpool.Pool, clk clock.Clock) *Postgres {
	return &Postgres{pool: pool, clock: clk}
}

// EnsureSchema creates the records table if missing. Called once at startup.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Wrap(err, "failed to ensure records schema")
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, kind, id string) (*Record, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT kind, id, user_id, destination_id, payload, updated_at
		 FROM records WHERE kind = $1 AND id = $2`, kind, id)

	var rec Record
	err := row.Scan(&rec.Kind, &rec.ID, &rec.UserID, &rec.DestinationID, &rec.Payload, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to get record")
	}
	return &rec, nil
}

func (p *Postgres) Save(ctx context.Context, rec Record) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO records (kind, id, user_id, destination_id, payload, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (kind, id) DO UPDATE
		 SET user_id = EXCLUDED.user_id,
		     destination_id = EXCLUDED.destination_id,
		     payload = EXCLUDED.payload,
		     updated_at = EXCLUDED.updated_at`,
		rec.Kind, rec.ID, rec.UserID, rec.DestinationID, rec.Payload, p.clock.Now())
	if err != nil {
		return errs.Wrap(err, "failed to save record")
	}
	return nil
}

func (p *Postgres) ByUser(ctx context.Context, kind string, userID uuid.UUID) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT kind, id, user_id, destination_id, payload, updated_at
		 FROM records WHERE kind = $1 AND user_id = $2`, kind, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to query records by user")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (p *Postgres) ByUserAndDestination(ctx context.Context, kind string, userID uuid.UUID, destinationID string) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT kind, id, user_id, destination_id, payload, updated_at
		 FROM records WHERE kind = $1 AND user_id = $2 AND destination_id = $3`,
		kind, userID, destinationID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to query records by user and destination")
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (p *Postgres) Users(ctx context.Context, kind string) ([]uuid.UUID, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT DISTINCT user_id FROM records WHERE kind = $1`, kind)
	if err != nil {
		return nil, errs.Wrap(err, "failed to query record users")
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errs.Wrap(err, "failed to scan user id")
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Kind, &rec.ID, &rec.UserID, &rec.DestinationID, &rec.Payload, &rec.UpdatedAt); err != nil {
			return nil, errs.Wrap(err, "failed to scan record")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
