package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/incident-etl/internal/domain"
	"github.com/civicpulse/incident-etl/internal/pipeline"
)

// memStore is an in-memory IncidentStore for tests.
type memStore struct {
	rows      map[string]domain.Incident
	queryErr  error
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]domain.Incident{}}
}

func (m *memStore) ExistingExternalIDs(_ context.Context, ids []string) (map[string]bool, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	out := map[string]bool{}
	for _, id := range ids {
		if _, ok := m.rows[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (m *memStore) InsertBatch(_ context.Context, incidents []domain.Incident) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, inc := range incidents {
		m.rows[inc.ExternalID] = inc
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func incidentWithID(id string) domain.Incident {
	return domain.Incident{
		ExternalID: id,
		Source:     "scanner",
		Category:   domain.CategoryOther,
		Severity:   domain.SeverityLow,
		Title:      "incident " + id,
	}
}

func TestDedupWriterIdempotentRerun(t *testing.T) {
	store := newMemStore()
	w := pipeline.NewDedupWriter(store, discardLogger())

	batch := []domain.Incident{incidentWithID("scanner_aaa"), incidentWithID("scanner_bbb")}

	inserted, skipped, err := w.Write(context.Background(), batch)
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
	assert.Equal(t, 0, skipped)

	// Second run over the identical payload inserts nothing.
	inserted, skipped, err = w.Write(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Equal(t, 2, skipped)
	assert.Len(t, store.rows, 2)
}

func TestDedupWriterInBatchDuplicates(t *testing.T) {
	// Five items where two share a fingerprint: four inserts at most.
	store := newMemStore()
	w := pipeline.NewDedupWriter(store, discardLogger())

	batch := []domain.Incident{
		incidentWithID("scanner_dup"),
		incidentWithID("scanner_dup"),
		incidentWithID("scanner_1"),
		incidentWithID("scanner_2"),
		incidentWithID("scanner_3"),
	}

	inserted, skipped, err := w.Write(context.Background(), batch)

	require.NoError(t, err)
	assert.Len(t, inserted, 4)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "incident scanner_dup", store.rows["scanner_dup"].Title, "first occurrence wins")
}

func TestDedupWriterPartialOverlap(t *testing.T) {
	store := newMemStore()
	store.rows["scanner_old"] = incidentWithID("scanner_old")
	w := pipeline.NewDedupWriter(store, discardLogger())

	inserted, skipped, err := w.Write(context.Background(), []domain.Incident{
		incidentWithID("scanner_old"),
		incidentWithID("scanner_new"),
	})

	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "scanner_new", inserted[0].ExternalID)
	assert.Equal(t, 1, skipped)
}

func TestDedupWriterEmptyBatch(t *testing.T) {
	w := pipeline.NewDedupWriter(newMemStore(), discardLogger())

	inserted, skipped, err := w.Write(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Equal(t, 0, skipped)
}

func TestDedupWriterStoreErrors(t *testing.T) {
	t.Run("existence check fails", func(t *testing.T) {
		store := newMemStore()
		store.queryErr = errors.New("connection refused")
		w := pipeline.NewDedupWriter(store, discardLogger())

		_, _, err := w.Write(context.Background(), []domain.Incident{incidentWithID("scanner_x")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "dedup existence check")
	})

	t.Run("insert fails atomically", func(t *testing.T) {
		store := newMemStore()
		store.insertErr = fmt.Errorf("deadlock detected")
		w := pipeline.NewDedupWriter(store, discardLogger())

		_, _, err := w.Write(context.Background(), []domain.Incident{incidentWithID("scanner_x")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert batch")
		assert.Empty(t, store.rows, "failed insert leaves nothing behind")
	})
}
