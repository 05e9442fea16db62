package source_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/incident-etl/internal/domain"
	"github.com/civicpulse/incident-etl/internal/source"
)

const activeAlerts = `{
	"type": "FeatureCollection",
	"features": [
		{
			"properties": {
				"id": "urn:oid:2.49.0.1.840.0.abc123",
				"event": "Severe Thunderstorm Warning",
				"headline": "Severe Thunderstorm Warning issued for McHenry County",
				"description": "At 430 PM, a severe thunderstorm was located near Marengo, moving east at 30 mph.",
				"severity": "Severe",
				"areaDesc": "McHenry County, IL",
				"onset": "2026-08-24T16:30:00-05:00"
			}
		},
		{
			"properties": {
				"id": "urn:oid:2.49.0.1.840.0.def456",
				"event": "Flood Watch",
				"headline": "",
				"description": "Excessive runoff possible.",
				"severity": "Moderate",
				"areaDesc": "McHenry County, IL"
			}
		},
		{
			"properties": {
				"severity": "Minor"
			}
		}
	]
}`

func TestWeatherFetch(t *testing.T) {
	srv := serveJSON(t, activeAlerts)

	s := source.NewWeather(srv.URL, 5*time.Second, discardLogger())
	incidents, err := s.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 2, "feature without an event name must be skipped")

	storm := incidents[0]
	assert.Equal(t, "weather", storm.Source)
	assert.True(t, strings.HasPrefix(storm.ExternalID, "weather_"))
	assert.Equal(t, domain.CategoryWeather, storm.Category)
	assert.Equal(t, "severe_thunderstorm_warning", storm.IncidentType)
	assert.Equal(t, domain.SeverityHigh, storm.Severity)
	assert.Equal(t, "Severe Thunderstorm Warning issued for McHenry County", storm.Title)
	assert.Equal(t, "McHenry County, IL", storm.LocationText)
	assert.Empty(t, storm.Municipality, "county-wide alerts carry no municipality")
	assert.Equal(t, domain.VerificationVerified, storm.VerificationStatus)
	require.NotNil(t, storm.OccurredAt)
	assert.Equal(t, time.Date(2026, 8, 24, 21, 30, 0, 0, time.UTC), *storm.OccurredAt)

	flood := incidents[1]
	assert.Equal(t, "Flood Watch", flood.Title, "event name stands in for a missing headline")
	assert.Equal(t, domain.SeverityMedium, flood.Severity)
	assert.Nil(t, flood.OccurredAt)
}

func TestWeatherSeverityVocabulary(t *testing.T) {
	payload := `{"features":[{"properties":{"id":"a1","event":"Tornado Warning","severity":"Extreme"}}]}`
	srv := serveJSON(t, payload)

	incidents, err := source.NewWeather(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, domain.SeverityCritical, incidents[0].Severity)
}

func TestWeatherFingerprintUsesAlertID(t *testing.T) {
	// Same alert ID, drifting description: the fingerprint must not move.
	first := serveJSON(t, `{"features":[{"properties":{"id":"a1","event":"Flood Watch","description":"initial"}}]}`)
	second := serveJSON(t, `{"features":[{"properties":{"id":"a1","event":"Flood Watch","description":"updated wording"}}]}`)

	a, err := source.NewWeather(first.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	b, err := source.NewWeather(second.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ExternalID, b[0].ExternalID)
}

func TestWeatherDescriptionCapped(t *testing.T) {
	long := strings.Repeat("x", 3000)
	srv := serveJSON(t, `{"features":[{"properties":{"id":"a1","event":"Flood Watch","description":"`+long+`"}}]}`)

	incidents, err := source.NewWeather(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Len(t, incidents[0].Description, 2000)
}
