package source

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/civicpulse/incident-etl/internal/domain"
)

const (
	weatherSourceName       = "weather"
	weatherDescriptionLimit = 2000
)

// WeatherSource pulls active alerts from the weather service API. The
// response is GeoJSON: one feature per alert with the alert fields under
// features[].properties. Alerts are county-wide, so no municipality is
// resolved; scoring intentionally ignores them for individual towns.
type WeatherSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWeather creates the weather-alerts adapter.
func NewWeather(url string, timeout time.Duration, logger *slog.Logger) *WeatherSource {
	return &WeatherSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *WeatherSource) Name() string { return weatherSourceName }

type weatherResponse struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// Fetch pulls the active alerts and converts each feature. Features without
// an event name are skipped.
func (s *WeatherSource) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp weatherResponse
	if err := getJSON(ctx, s.client, weatherSourceName, s.url, &resp); err != nil {
		return nil, err
	}

	incidents := make([]domain.Incident, 0, len(resp.Features))
	for _, f := range resp.Features {
		inc, ok := s.buildIncident(f.Properties)
		if !ok {
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents, nil
}

func (s *WeatherSource) buildIncident(props map[string]any) (domain.Incident, bool) {
	event := pickString(props, "event", "Event")
	if event == "" {
		return domain.Incident{}, false
	}

	alertID := pickString(props, "id", "Id", "ID")
	headline := domain.CleanHTML(pickString(props, "headline", "Headline"))
	description := domain.Truncate(domain.CleanHTML(pickString(props, "description", "Description")), weatherDescriptionLimit)
	area := pickString(props, "areaDesc", "AreaDesc")

	title := headline
	if title == "" {
		title = event
	}

	// Alert IDs are stable across refreshes of the same alert; fall back to
	// event plus headline for providers that omit them.
	var fingerprint string
	if alertID != "" {
		fingerprint = domain.Fingerprint(weatherSourceName, alertID)
	} else {
		fingerprint = domain.Fingerprint(weatherSourceName, event, headline)
	}

	inc := domain.Incident{
		ExternalID:         domain.NamespaceExternalID(weatherSourceName, fingerprint),
		Source:             weatherSourceName,
		Category:           domain.CategoryWeather,
		IncidentType:       eventSlug(event),
		Severity:           domain.WeatherSeverity(pickString(props, "severity", "Severity")),
		Title:              title,
		Description:        description,
		LocationText:       area,
		ReportedAt:         domain.Now(),
		VerificationStatus: domain.VerificationVerified,
		RawData: map[string]any{
			"alert_id": alertID,
			"event":    event,
			"source":   weatherSourceName,
		},
	}

	if ts := parseAlertTime(props); ts != nil {
		inc.OccurredAt = ts
	}

	return inc, true
}

// parseAlertTime prefers the alert's onset, then its effective time.
func parseAlertTime(props map[string]any) *time.Time {
	for _, key := range []string{"onset", "Onset", "effective", "Effective"} {
		value := pickString(props, key)
		if value == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// eventSlug turns "Winter Storm Warning" into "winter_storm_warning".
func eventSlug(event string) string {
	return strings.ToLower(strings.Join(strings.Fields(event), "_"))
}
