// Package scoring computes the municipal stability score: a 0-100 index
// summarizing safety, infrastructure, and civic conditions over a trailing
// window, with a trend against the prior window. Scores are computed on
// read and never persisted.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/civicpulse/incident-etl/internal/domain"
)

// categoryWeights is the safety penalty per incident by category. The
// methodology is deliberately transparent: score = 100 minus the weighted
// incident count, floored at zero. Unknown categories weigh 1.
var categoryWeights = map[string]int{
	domain.CategoryViolentCrime:  15,
	domain.CategoryWeapons:       12,
	domain.CategoryFire:          10,
	domain.CategoryHazard:        8,
	domain.CategoryPropertyCrime: 5,
	domain.CategoryTraffic:       4,
	domain.CategoryWeather:       3,
	domain.CategoryCivic:         1,
	domain.CategoryOther:         1,
}

const (
	// DefaultWindowDays is the trailing window when the caller does not
	// specify one.
	DefaultWindowDays = 7

	// Sub-score blend weights.
	safetyShare         = 0.4
	infrastructureShare = 0.3
	civicShare          = 0.3

	// Fixed placeholder sub-scores until infrastructure and civic data
	// sources are wired in. They are reported with DataAvailable=false so
	// consumers can tell a placeholder from a computed value.
	infrastructurePlaceholder = 75
	civicPlaceholder          = 70

	// Trend thresholds: at least a 10% move in incident volume before the
	// trend leaves "stable".
	trendImproving = -10
	trendDeclining = 10
)

// IncidentReader provides per-category incident counts for one municipality
// over a time window.
type IncidentReader interface {
	CategoryCounts(ctx context.Context, municipality string, from, to time.Time) (map[string]int, error)
}

// CategoryImpact is one line of a sub-score breakdown.
type CategoryImpact struct {
	Type   string `json:"type"`
	Count  int    `json:"count"`
	Impact int    `json:"impact"`
}

// CategoryScore is one of the three sub-scores.
type CategoryScore struct {
	Score         int              `json:"score"`
	MaxScore      int              `json:"maxScore"`
	IncidentCount int              `json:"incidentCount"`
	Trend         string           `json:"trend"`
	TrendPercent  int              `json:"trendPercent"`
	DataAvailable bool             `json:"dataAvailable"`
	Breakdown     []CategoryImpact `json:"breakdown"`
}

// CategoryScores groups the three sub-scores.
type CategoryScores struct {
	Safety         CategoryScore `json:"safety"`
	Infrastructure CategoryScore `json:"infrastructure"`
	Civic          CategoryScore `json:"civic"`
}

// StabilityScore is the composite result for one municipality and window.
type StabilityScore struct {
	Municipality string         `json:"municipality"`
	Days         int            `json:"days"`
	Overall      int            `json:"overall"`
	Confidence   string         `json:"confidence"`
	Categories   CategoryScores `json:"categories"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// Engine computes stability scores from stored incidents.
type Engine struct {
	reader IncidentReader
	clock  clockwork.Clock
	logger *slog.Logger
}

// New creates an engine. The clock anchors the trailing windows; pass a
// fake in tests for deterministic output.
func New(reader IncidentReader, logger *slog.Logger, clock clockwork.Clock) *Engine {
	return &Engine{reader: reader, clock: clock, logger: logger}
}

// Score computes the stability score for a municipality over the trailing
// window of the given length in days (DefaultWindowDays when days <= 0).
// The prior window of equal length feeds the trend.
func (e *Engine) Score(ctx context.Context, municipality string, days int) (StabilityScore, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	now := e.clock.Now().UTC()
	windowStart := now.AddDate(0, 0, -days)
	priorStart := now.AddDate(0, 0, -2*days)

	current, err := e.reader.CategoryCounts(ctx, municipality, windowStart, now)
	if err != nil {
		return StabilityScore{}, fmt.Errorf("current window counts: %w", err)
	}
	previous, err := e.reader.CategoryCounts(ctx, municipality, priorStart, windowStart)
	if err != nil {
		return StabilityScore{}, fmt.Errorf("prior window counts: %w", err)
	}

	safety := safetyScore(current, previous)
	infrastructure := placeholderScore(infrastructurePlaceholder)
	civic := placeholderScore(civicPlaceholder)

	overall := int(math.Round(
		float64(safety.Score)*safetyShare +
			float64(infrastructure.Score)*infrastructureShare +
			float64(civic.Score)*civicShare,
	))

	score := StabilityScore{
		Municipality: municipality,
		Days:         days,
		Overall:      overall,
		Confidence:   confidence(safety.DataAvailable, infrastructure.DataAvailable, civic.DataAvailable),
		Categories: CategoryScores{
			Safety:         safety,
			Infrastructure: infrastructure,
			Civic:          civic,
		},
		GeneratedAt: now,
	}

	e.logger.Debug("stability score computed",
		"municipality", municipality,
		"days", days,
		"overall", overall,
		"safety", safety.Score,
	)
	return score, nil
}

// safetyScore applies the weight table to the current window and derives
// the trend from total incident volume against the prior window.
func safetyScore(current, previous map[string]int) CategoryScore {
	total := 0
	penalty := 0
	breakdown := make([]CategoryImpact, 0, len(current))
	for category, count := range current {
		impact := weightFor(category) * count
		penalty += impact
		total += count
		breakdown = append(breakdown, CategoryImpact{Type: category, Count: count, Impact: impact})
	}

	// Descending impact, category name as a stable tie-break.
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Impact != breakdown[j].Impact {
			return breakdown[i].Impact > breakdown[j].Impact
		}
		return breakdown[i].Type < breakdown[j].Type
	})

	score := 100 - penalty
	if score < 0 {
		score = 0
	}

	trend, pct := deriveTrend(total, totalCount(previous))

	return CategoryScore{
		Score:         score,
		MaxScore:      100,
		IncidentCount: total,
		Trend:         trend,
		TrendPercent:  pct,
		DataAvailable: true,
		Breakdown:     breakdown,
	}
}

// deriveTrend compares incident volume across windows. An empty prior
// window yields a stable trend with zero percent change; there is no
// division by zero and no fabricated "improving" signal from a cold start.
func deriveTrend(current, previous int) (string, int) {
	if previous == 0 {
		return "stable", 0
	}
	pct := int(math.Round(float64(current-previous) / float64(previous) * 100))
	switch {
	case pct <= trendImproving:
		return "improving", pct
	case pct >= trendDeclining:
		return "declining", pct
	default:
		return "stable", pct
	}
}

// placeholderScore marks a sub-score whose data source is not yet wired.
// The fixed value keeps the overall blend meaningful while DataAvailable
// tells consumers no real computation backs it.
func placeholderScore(fixed int) CategoryScore {
	return CategoryScore{
		Score:         fixed,
		MaxScore:      100,
		Trend:         "stable",
		DataAvailable: false,
		Breakdown:     []CategoryImpact{},
	}
}

// confidence reflects how many of the three category data sources are
// actually populated.
func confidence(available ...bool) string {
	n := 0
	for _, a := range available {
		if a {
			n++
		}
	}
	switch {
	case n >= 3:
		return "high"
	case n >= 2:
		return "medium"
	default:
		return "low"
	}
}

func weightFor(category string) int {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return 1
}

func totalCount(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
