// Package audit persists a trail of pipeline runs. The engine itself is
// stateless; the trail exists so operators can see when runs happened, how
// much they fetched and whether pagination was truncated.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuvalum/margin-service/internal/enrich"
	"github.com/tuvalum/margin-service/internal/pkg/cuid2"
	"github.com/tuvalum/margin-service/internal/stock"
)

// Run kinds recorded in the trail.
const (
	KindEnrichment   = "enrichment"
	KindStockControl = "stock_control"
)

// Run is one recorded pipeline run.
type Run struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Since      *time.Time `json:"since,omitempty"`
	Pages      int        `json:"pages"`
	Fetched    int        `json:"fetched"`
	Kept       int        `json:"kept"`
	Rejected   int        `json:"rejected"`
	Returns    int        `json:"returns"`
	Degraded   int        `json:"degraded"`
	Truncated  bool       `json:"truncated"`
	DurationMS int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Store writes and reads the run trail.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the trail table when missing. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			since       TIMESTAMPTZ,
			pages       INT NOT NULL DEFAULT 0,
			fetched     INT NOT NULL DEFAULT 0,
			kept        INT NOT NULL DEFAULT 0,
			rejected    INT NOT NULL DEFAULT 0,
			returns     INT NOT NULL DEFAULT 0,
			degraded    INT NOT NULL DEFAULT 0,
			truncated   BOOLEAN NOT NULL DEFAULT FALSE,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_pipeline_runs_created_at
			ON pipeline_runs (created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure pipeline_runs schema: %w", err)
	}
	return nil
}

// RecordEnrichment appends an order-enrichment run to the trail.
func (s *Store) RecordEnrichment(ctx context.Context, since time.Time, stats enrich.RunStats) (string, error) {
	id := cuid2.GeneratePrefixedId("run", cuid2.PrefixedIdOptions{TimeSortable: true})

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pipeline_runs
			(id, kind, since, pages, fetched, kept, rejected, returns, degraded, truncated, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, KindEnrichment, since, stats.Pages, stats.Fetched, stats.Kept,
		stats.Rejected, stats.Returns, stats.Degraded, stats.Truncated,
		stats.Duration.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("record enrichment run: %w", err)
	}
	return id, nil
}

// RecordStockControl appends a pricing-control run to the trail.
func (s *Store) RecordStockControl(ctx context.Context, stats stock.Stats) (string, error) {
	id := cuid2.GeneratePrefixedId("run", cuid2.PrefixedIdOptions{TimeSortable: true})

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pipeline_runs
			(id, kind, fetched, rejected, duration_ms)
		VALUES ($1, $2, $3, $4, $5)
	`, id, KindStockControl, stats.Listings, stats.Excluded, stats.Duration.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("record stock-control run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, since, pages, fetched, kept, rejected, returns,
		       degraded, truncated, duration_ms, created_at
		FROM pipeline_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Since, &r.Pages, &r.Fetched,
			&r.Kept, &r.Rejected, &r.Returns, &r.Degraded, &r.Truncated,
			&r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pipeline run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
