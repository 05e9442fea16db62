// Package pipeline orchestrates one ingestion run per source: fetch,
// dedup, bulk insert, optional downstream publish. Runs are short-lived and
// triggered externally (HTTP endpoint or cron); there is no long-lived
// consume loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/civicpulse/incident-etl/internal/domain"
	"github.com/civicpulse/incident-etl/internal/observability"
	"github.com/civicpulse/incident-etl/internal/source"
)

// ErrUnknownSource is returned when a run is requested for a source name
// that was never registered.
var ErrUnknownSource = errors.New("unknown source")

// Publisher pushes newly inserted incidents to downstream consumers.
type Publisher interface {
	PublishBatch(ctx context.Context, incidents []domain.Incident) error
}

// RunResult summarizes one ingestion run of a single source.
type RunResult struct {
	Source   string   `json:"source"`
	Fetched  int      `json:"fetched"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Sample   []string `json:"sample,omitempty"`
}

// sampleSize bounds how many inserted titles a RunResult carries back to
// the trigger response.
const sampleSize = 3

// Runner executes ingestion runs across the registered sources.
type Runner struct {
	sources   map[string]source.Source
	order     []string
	writer    *DedupWriter
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRunner registers the given sources. publisher may be nil to disable
// downstream publishing.
func NewRunner(sources []source.Source, writer *DedupWriter, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	byName := make(map[string]source.Source, len(sources))
	order := make([]string, 0, len(sources))
	for _, s := range sources {
		byName[s.Name()] = s
		order = append(order, s.Name())
	}
	return &Runner{
		sources:   byName,
		order:     order,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Sources returns the registered source names in registration order.
func (r *Runner) Sources() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// RunSource executes one fetch-dedup-insert cycle for the named source.
// Fetch and store failures are returned to the caller; nothing is persisted
// on failure because the batch insert is atomic.
func (r *Runner) RunSource(ctx context.Context, name string) (RunResult, error) {
	src, ok := r.sources[name]
	if !ok {
		return RunResult{Source: name}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	start := time.Now()
	result := RunResult{Source: name}

	batch, err := src.Fetch(ctx)
	if err != nil {
		r.metrics.FetchErrors.WithLabelValues(name).Inc()
		return result, err
	}
	result.Fetched = len(batch)
	r.metrics.ItemsFetched.WithLabelValues(name).Add(float64(len(batch)))
	r.metrics.BatchSize.Observe(float64(len(batch)))

	inserted, skipped, err := r.writer.Write(ctx, batch)
	if err != nil {
		r.metrics.WriteErrors.WithLabelValues(name).Inc()
		return result, err
	}
	result.Inserted = len(inserted)
	result.Skipped = skipped
	for i := 0; i < len(inserted) && i < sampleSize; i++ {
		result.Sample = append(result.Sample, inserted[i].Title)
	}

	r.metrics.IncidentsInserted.WithLabelValues(name).Add(float64(len(inserted)))
	r.metrics.IncidentsSkipped.WithLabelValues(name).Add(float64(skipped))
	r.metrics.RunDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	r.publishInserted(ctx, name, inserted)

	r.logger.Info("source run complete",
		"source", name,
		"fetched", result.Fetched,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"duration", time.Since(start),
	)
	return result, nil
}

// publishInserted pushes newly stored incidents downstream. Publishing is
// best-effort: the store is already consistent, so a publish failure is
// logged and counted, never surfaced as a run failure.
func (r *Runner) publishInserted(ctx context.Context, name string, inserted []domain.Incident) {
	if r.publisher == nil || len(inserted) == 0 {
		return
	}
	if err := r.publisher.PublishBatch(ctx, inserted); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("publish inserted incidents failed", "source", name, "count", len(inserted), "error", err)
	}
}

// RunAll executes every registered source concurrently and returns one
// result per source in registration order. A failing source is logged and
// yields a zeroed result; it never blocks or aborts its siblings.
func (r *Runner) RunAll(ctx context.Context) []RunResult {
	results := make([]RunResult, len(r.order))

	var wg sync.WaitGroup
	for i, name := range r.order {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			res, err := r.RunSource(ctx, name)
			if err != nil {
				r.logger.Error("source run failed", "source", name, "error", err)
			}
			results[i] = res
		}(i, name)
	}
	wg.Wait()

	return results
}
