package source

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/civicpulse/incident-etl/internal/domain"
)

const (
	trafficSourceName       = "traffic"
	trafficDescriptionLimit = 500

	// trafficFingerprintHead bounds the description prefix that joins the
	// fingerprint. DOT events keep their ID across updates but the
	// description drifts as lanes reopen; hashing only the head tolerates
	// cosmetic edits while still splitting genuinely different events that
	// reuse an ID after a feed reset.
	trafficFingerprintHead = 100
)

// TrafficSource pulls the state DOT travel-events JSON API. The API has
// shipped responses with both PascalCase and camelCase field names, so
// every field read goes through an explicit alias list.
type TrafficSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewTraffic creates the traffic-events adapter.
func NewTraffic(url string, timeout time.Duration, logger *slog.Logger) *TrafficSource {
	return &TrafficSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *TrafficSource) Name() string { return trafficSourceName }

// Fetch pulls the event list and converts each entry. Events with neither
// an ID nor a description are skipped.
func (s *TrafficSource) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var events []map[string]any
	if err := getJSON(ctx, s.client, trafficSourceName, s.url, &events); err != nil {
		return nil, err
	}

	incidents := make([]domain.Incident, 0, len(events))
	for _, ev := range events {
		inc, ok := s.buildIncident(ev)
		if !ok {
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents, nil
}

func (s *TrafficSource) buildIncident(ev map[string]any) (domain.Incident, bool) {
	eventID := pickString(ev, "EventID", "eventId", "EventId", "id")
	eventType := pickString(ev, "EventType", "eventType")
	description := domain.Truncate(domain.CleanHTML(pickString(ev, "Description", "description")), trafficDescriptionLimit)
	location := pickString(ev, "Location", "location", "RoadwayName", "roadwayName")
	city := pickString(ev, "City", "city")

	if eventID == "" && description == "" {
		return domain.Incident{}, false
	}

	title := eventType
	if title == "" {
		title = "Traffic incident"
	}
	if location != "" {
		title = title + " at " + location
	}

	cls := domain.Classify(domain.TrafficRules, eventType+" "+description, domain.TrafficDefault)

	var fingerprint string
	if eventID != "" {
		fingerprint = domain.Fingerprint(trafficSourceName, eventID, domain.Truncate(description, trafficFingerprintHead))
	} else {
		fingerprint = domain.Fingerprint(trafficSourceName, location, domain.Truncate(description, trafficFingerprintHead))
	}

	inc := domain.Incident{
		ExternalID:         domain.NamespaceExternalID(trafficSourceName, fingerprint),
		Source:             trafficSourceName,
		Category:           cls.Category,
		IncidentType:       cls.Type,
		Severity:           domain.SeverityFor(cls.Category),
		Title:              title,
		Description:        description,
		LocationText:       location,
		Municipality:       domain.ResolveMunicipality(city+" "+location+" "+description, false),
		ReportedAt:         domain.Now(),
		VerificationStatus: domain.VerificationVerified,
		RawData: map[string]any{
			"event_id": eventID,
			"type":     eventType,
			"source":   trafficSourceName,
		},
	}

	if lat, ok := pickFloat(ev, "Latitude", "latitude", "Lat", "lat"); ok {
		inc.Latitude = &lat
	}
	if lon, ok := pickFloat(ev, "Longitude", "longitude", "Lon", "lon"); ok {
		inc.Longitude = &lon
	}
	if ts := parseEventTime(pickString(ev, "StartDate", "startDate", "Reported", "reported")); ts != nil {
		inc.OccurredAt = ts
	}

	return inc, true
}

// parseEventTime accepts the timestamp formats the feed has been seen to
// use. Returns nil when the value is absent or unrecognized; the incident
// then simply has no occurrence time.
func parseEventTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
