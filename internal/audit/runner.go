package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tuvalum/margin-service/internal/enrich"
)

// EnrichmentRecorder wraps an enrichment runner and records every completed
// run. Recording failures are logged, never surfaced; the snapshot is still
// good even when the audit insert is not.
type EnrichmentRecorder struct {
	runner enrich.Runner
	store  *Store
	logger zerolog.Logger
}

// NewEnrichmentRecorder wraps runner so completed runs land in store. A nil
// store disables recording.
func NewEnrichmentRecorder(runner enrich.Runner, store *Store, logger zerolog.Logger) *EnrichmentRecorder {
	return &EnrichmentRecorder{runner: runner, store: store, logger: logger}
}

// Run executes the wrapped runner and records the outcome.
func (r *EnrichmentRecorder) Run(ctx context.Context, since time.Time) (*enrich.Result, error) {
	result, err := r.runner.Run(ctx, since)
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		if _, recErr := r.store.RecordEnrichment(ctx, since, result.Stats); recErr != nil {
			r.logger.Warn().Err(recErr).Msg("Failed to record enrichment run")
		}
	}
	return result, nil
}
