package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/incident-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	reported := time.Date(2026, 8, 24, 14, 35, 0, 0, time.UTC)
	incident := domain.Incident{
		ExternalID:         "scanner_3f81c02a9d44e1b7",
		Source:             "scanner",
		Category:           domain.CategoryFire,
		IncidentType:       "structure_fire",
		Severity:           domain.SeverityHigh,
		Title:              "Structure fire on Main St",
		Municipality:       "Woodstock",
		ReportedAt:         reported,
		VerificationStatus: domain.VerificationUnverified,
	}

	msg, err := serializeToMessage(incident)
	require.NoError(t, err)

	assert.Equal(t, []byte("scanner_3f81c02a9d44e1b7"), msg.Key)
	assert.Contains(t, string(msg.Value), `"incident_type":"structure_fire"`)
	assert.Contains(t, string(msg.Value), `"municipality":"Woodstock"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("scanner"), msg.Headers[0].Value)
	assert.Equal(t, "severity", msg.Headers[1].Key)
	assert.Equal(t, []byte("high"), msg.Headers[1].Value)
	assert.Equal(t, "reported_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(reported.Format(time.RFC3339)), msg.Headers[2].Value)
}
