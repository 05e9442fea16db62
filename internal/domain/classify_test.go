package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	// Text matching both a violence rule and a traffic rule must classify
	// by whichever rule appears first in the table.
	cls := Classify(ScannerRules, "Shooting reported after two-car crash on Route 47", ScannerDefault)

	assert.Equal(t, "shooting", cls.Type)
	assert.Equal(t, CategoryViolentCrime, cls.Category)
}

func TestClassifyScannerVocabulary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantType string
		wantCat  string
	}{
		{"stabbing", "Stabbing victim transported from Harvard", "stabbing", CategoryViolentCrime},
		{"structure fire", "Fully involved structure fire on Elm St", "structure_fire", CategoryFire},
		{"generic fire after structure check", "Vehicle fire on shoulder", "fire", CategoryFire},
		{"burglary", "Residential break-in reported overnight", "burglary", CategoryPropertyCrime},
		{"crash", "Rollover crash with pin-in, extrication underway", "crash", CategoryTraffic},
		{"hazmat", "Gas leak evacuations near downtown", "hazmat", CategoryHazard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := Classify(ScannerRules, tt.text, ScannerDefault)
			assert.Equal(t, tt.wantType, cls.Type)
			assert.Equal(t, tt.wantCat, cls.Category)
		})
	}
}

func TestClassifyFallsBackToDefault(t *testing.T) {
	scanner := Classify(ScannerRules, "Loud noise complaint, no further detail", ScannerDefault)
	assert.Equal(t, ScannerDefault, scanner)

	county := Classify(CountyNewsRules, "New podcast episode now available", CountyNewsDefault)
	assert.Equal(t, "announcement", county.Type)
	assert.Equal(t, CategoryCivic, county.Category)
}

func TestClassifyTablesAreSourceSpecific(t *testing.T) {
	// The same text lands in different buckets per source table: county
	// news has no scanner vocabulary for medical calls.
	text := "Ambulance requested at the county fairgrounds"

	scanner := Classify(ScannerRules, text, ScannerDefault)
	county := Classify(CountyNewsRules, text, CountyNewsDefault)

	assert.Equal(t, "medical", scanner.Type)
	assert.Equal(t, "announcement", county.Type)
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityFor(CategoryViolentCrime))
	assert.Equal(t, SeverityHigh, SeverityFor(CategoryFire))
	assert.Equal(t, SeverityMedium, SeverityFor(CategoryTraffic))
	assert.Equal(t, SeverityLow, SeverityFor(CategoryCivic))
	assert.Equal(t, SeverityLow, SeverityFor("never-seen-category"), "unknown categories default to low")
}

func TestWeatherSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, WeatherSeverity("Extreme"))
	assert.Equal(t, SeverityHigh, WeatherSeverity("severe"))
	assert.Equal(t, SeverityMedium, WeatherSeverity(" Moderate "))
	assert.Equal(t, SeverityLow, WeatherSeverity("Minor"))
	assert.Equal(t, SeverityLow, WeatherSeverity("Unknown"))
	assert.Equal(t, SeverityLow, WeatherSeverity(""))
}
