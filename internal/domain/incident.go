package domain

import "time"

// Severity levels, ordered from most to least urgent.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Verification statuses, assigned by source trust tier rather than inferred
// from content. Government feeds are verified, community feeds are not.
const (
	VerificationVerified   = "verified"
	VerificationUnverified = "unverified"
)

// Incident categories. Coarse buckets used for filtering and for the
// stability score's weight table.
const (
	CategoryViolentCrime  = "violent_crime"
	CategoryWeapons       = "weapons"
	CategoryPropertyCrime = "property_crime"
	CategoryFire          = "fire"
	CategoryTraffic       = "traffic"
	CategoryHazard        = "hazard"
	CategoryWeather       = "weather"
	CategoryCivic         = "civic"
	CategoryOther         = "other"
)

// Incident is the canonical record produced by the ingestion pipeline and
// persisted by the store. Records are append-only: created once by the
// dedup writer and never mutated afterwards.
type Incident struct {
	// ID is assigned by the store on insert.
	ID string `json:"id,omitempty"`

	// ExternalID is the source-namespaced fingerprint and the global
	// idempotency key, e.g. "scanner_3f81c02a9d44e1b7".
	ExternalID string `json:"external_id"`

	Source       string `json:"source"`
	Category     string `json:"category"`
	IncidentType string `json:"incident_type"`
	Severity     string `json:"severity"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// LocationText is the free-text location as reported by the source;
	// Municipality is the gazetteer-resolved city name. Either may be empty
	// when the source yields no usable location.
	LocationText string `json:"location_text,omitempty"`
	Municipality string `json:"municipality,omitempty"`

	// Coordinates are present only for sources with native geodata.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// OccurredAt is the real-world event time when the source reports one.
	// ReportedAt is the ingestion time and is always set.
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	ReportedAt time.Time  `json:"reported_at"`

	VerificationStatus string `json:"verification_status"`

	// RawData retains source-specific fields (original URL, feed GUID,
	// upstream event sub-type) for audit and display.
	RawData map[string]any `json:"raw_data,omitempty"`
}
