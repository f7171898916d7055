// README: Rate table store backed by PostgreSQL (read-only, versioned).
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightquote/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadTable reads one published version of the table. An empty version selects the latest one.
func (s *Store) LoadTable(ctx context.Context, version string) (RateTable, error) {
	if version == "" {
		row := s.db.QueryRow(ctx, `
			SELECT version FROM antt_rates
			ORDER BY published_at DESC, version DESC
			LIMIT 1`)
		if err := row.Scan(&version); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return RateTable{}, ErrNoTable
			}
			return RateTable{}, fmt.Errorf("latest rate version: %w", err)
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT cargo_type, axles, ccd, cc, max_weight, operation, description, published_at
		FROM antt_rates
		WHERE version = $1`, version)
	if err != nil {
		return RateTable{}, fmt.Errorf("query rates %s: %w", version, err)
	}
	defer rows.Close()

	t := RateTable{Version: version}
	for rows.Next() {
		var (
			e         RateEntry
			axles     string
			published time.Time
		)
		if err := rows.Scan(&t.CargoType, &axles, &e.DisplacementCoef, &e.LoadingCoef,
			&e.MaxWeightTonnes, &e.Operation, &e.Description, &published); err != nil {
			return RateTable{}, fmt.Errorf("scan rate row: %w", err)
		}
		e.Axles = types.AxleClass(axles)
		t.PublishedAt = published
		t.Entries = append(t.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return RateTable{}, fmt.Errorf("iterate rates: %w", err)
	}
	if len(t.Entries) == 0 {
		return RateTable{}, fmt.Errorf("%w: version %q", ErrNoTable, version)
	}
	if err := ValidateTable(t); err != nil {
		return RateTable{}, err
	}
	return normalize(t), nil
}

// SeedTable inserts a table version; existing rows for the same version and axle are left untouched.
func (s *Store) SeedTable(ctx context.Context, t RateTable) error {
	if err := ValidateTable(t); err != nil {
		return err
	}
	published := t.PublishedAt
	if published.IsZero() {
		published = time.Now().UTC()
	}
	batch := &pgx.Batch{}
	for _, e := range t.Entries {
		batch.Queue(`
			INSERT INTO antt_rates (
				version, cargo_type, axles, ccd, cc, max_weight, operation, description, published_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (version, axles) DO NOTHING`,
			t.Version, t.CargoType, string(e.Axles), e.DisplacementCoef, e.LoadingCoef,
			e.MaxWeightTonnes, e.Operation, e.Description, published,
		)
	}
	return s.db.SendBatch(ctx, batch).Close()
}
