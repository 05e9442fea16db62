package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civicpulse/incident-etl/internal/domain"
)

// IncidentStore is the slice of the store the dedup writer needs.
type IncidentStore interface {
	// ExistingExternalIDs reports which of the given external IDs are
	// already persisted.
	ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error)

	// InsertBatch persists incidents atomically: either all rows land or
	// none do.
	InsertBatch(ctx context.Context, incidents []domain.Incident) error
}

// DedupWriter filters a candidate batch down to unseen fingerprints and
// bulk-inserts the remainder. It guarantees at most one stored row per
// fingerprint provided runs of the same source do not overlap; the caller's
// scheduler owns that serialization, the writer takes no cross-process
// lock.
type DedupWriter struct {
	store  IncidentStore
	logger *slog.Logger
}

// NewDedupWriter creates a writer over the given store.
func NewDedupWriter(store IncidentStore, logger *slog.Logger) *DedupWriter {
	return &DedupWriter{store: store, logger: logger}
}

// Write inserts the candidates whose external IDs are not already stored
// and returns the inserted incidents plus the number skipped as
// duplicates. Within the batch the first occurrence of a fingerprint wins.
// On store failure nothing is persisted and the error is returned for the
// caller to report; the next scheduled run re-attempts naturally.
func (w *DedupWriter) Write(ctx context.Context, batch []domain.Incident) ([]domain.Incident, int, error) {
	if len(batch) == 0 {
		return nil, 0, nil
	}

	skipped := 0
	seen := make(map[string]bool, len(batch))
	unique := make([]domain.Incident, 0, len(batch))
	for _, inc := range batch {
		if seen[inc.ExternalID] {
			skipped++
			continue
		}
		seen[inc.ExternalID] = true
		unique = append(unique, inc)
	}

	ids := make([]string, len(unique))
	for i, inc := range unique {
		ids[i] = inc.ExternalID
	}

	existing, err := w.store.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("dedup existence check: %w", err)
	}

	fresh := make([]domain.Incident, 0, len(unique))
	for _, inc := range unique {
		if existing[inc.ExternalID] {
			skipped++
			continue
		}
		fresh = append(fresh, inc)
	}

	if len(fresh) == 0 {
		return nil, skipped, nil
	}

	if err := w.store.InsertBatch(ctx, fresh); err != nil {
		return nil, 0, fmt.Errorf("insert batch: %w", err)
	}

	return fresh, skipped, nil
}
