package domain

import "strings"

// severityByCategory is the static category-to-severity table. Violent
// crime is always critical; fire and weapon calls are high; property and
// road incidents are medium; civic items are low.
var severityByCategory = map[string]string{
	CategoryViolentCrime:  SeverityCritical,
	CategoryWeapons:       SeverityHigh,
	CategoryFire:          SeverityHigh,
	CategoryHazard:        SeverityMedium,
	CategoryPropertyCrime: SeverityMedium,
	CategoryTraffic:       SeverityMedium,
	CategoryWeather:       SeverityMedium,
	CategoryCivic:         SeverityLow,
	CategoryOther:         SeverityLow,
}

// SeverityFor maps a category to its severity, defaulting to low for
// unrecognized categories so persisted incidents never lack a severity.
func SeverityFor(category string) string {
	if s, ok := severityByCategory[category]; ok {
		return s
	}
	return SeverityLow
}

// WeatherSeverity maps the weather service's four-level severity vocabulary
// (Extreme, Severe, Moderate, Minor/Unknown) onto the internal scale. The
// alert supplies its own severity, so the category table is bypassed.
func WeatherSeverity(external string) string {
	switch strings.ToLower(strings.TrimSpace(external)) {
	case "extreme":
		return SeverityCritical
	case "severe":
		return SeverityHigh
	case "moderate":
		return SeverityMedium
	default:
		return SeverityLow
	}
}
