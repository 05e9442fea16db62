// Package store persists incidents in PostgreSQL and serves the read
// queries used by deduplication and scoring.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/civicpulse/incident-etl/internal/domain"
)

// IncidentRow is the incidents table model. Municipality, coordinates, and
// occurrence time are nullable: empty values are stored as NULL rather than
// empty strings so window queries and per-city filters behave.
type IncidentRow struct {
	ID                 string  `gorm:"type:uuid;primaryKey"`
	ExternalID         string  `gorm:"uniqueIndex;not null"`
	Source             string  `gorm:"index;not null"`
	Category           string  `gorm:"not null"`
	IncidentType       string  `gorm:"not null"`
	Severity           string  `gorm:"not null"`
	Title              string  `gorm:"not null"`
	Description        string
	LocationText       *string
	Municipality       *string `gorm:"index:idx_incidents_municipality_occurred,priority:1"`
	Latitude           *float64
	Longitude          *float64
	OccurredAt         *time.Time `gorm:"index:idx_incidents_municipality_occurred,priority:2"`
	ReportedAt         time.Time  `gorm:"not null"`
	VerificationStatus string     `gorm:"not null"`
	RawData            datatypes.JSON
	CreatedAt          time.Time
}

// TableName pins the table name independent of GORM pluralization config.
func (IncidentRow) TableName() string { return "incidents" }

// Store wraps the PostgreSQL connection.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and runs the schema migration. GORM's own
// query logging is silenced; the service logs at the pipeline layer.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&IncidentRow{}); err != nil {
		return nil, fmt.Errorf("migrate incidents table: %w", err)
	}
	return &Store{db: db}, nil
}

// ExistingExternalIDs reports which of the given external IDs are already
// persisted. Used by the dedup writer before an insert batch.
func (s *Store) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	if len(externalIDs) == 0 {
		return map[string]bool{}, nil
	}
	var found []string
	err := s.db.WithContext(ctx).
		Model(&IncidentRow{}).
		Where("external_id IN ?", externalIDs).
		Pluck("external_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("query existing external ids: %w", err)
	}
	existing := make(map[string]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// InsertBatch persists a batch of incidents in a single statement, assigning
// store IDs. The insert is atomic: either every row lands or none do.
func (s *Store) InsertBatch(ctx context.Context, incidents []domain.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	rows := make([]IncidentRow, 0, len(incidents))
	for i := range incidents {
		row, err := toRow(incidents[i])
		if err != nil {
			return fmt.Errorf("encode incident %s: %w", incidents[i].ExternalID, err)
		}
		rows = append(rows, row)
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert incidents: %w", err)
	}
	return nil
}

// CategoryCounts returns per-category incident counts for one municipality
// within [from, to). Incidents without an occurrence time fall back to their
// report time so nothing silently drops out of the window.
func (s *Store) CategoryCounts(ctx context.Context, municipality string, from, to time.Time) (map[string]int, error) {
	type row struct {
		Category string
		Count    int
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&IncidentRow{}).
		Select("category, COUNT(*) AS count").
		Where("municipality = ?", municipality).
		Where("COALESCE(occurred_at, reported_at) >= ? AND COALESCE(occurred_at, reported_at) < ?", from, to).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query category counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Count
	}
	return counts, nil
}

// CheckReadiness pings the database. Backs the /readyz endpoint.
func (s *Store) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(in domain.Incident) (IncidentRow, error) {
	row := IncidentRow{
		ID:                 uuid.NewString(),
		ExternalID:         in.ExternalID,
		Source:             in.Source,
		Category:           in.Category,
		IncidentType:       in.IncidentType,
		Severity:           in.Severity,
		Title:              in.Title,
		Description:        in.Description,
		LocationText:       nullableString(in.LocationText),
		Municipality:       nullableString(in.Municipality),
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		OccurredAt:         in.OccurredAt,
		ReportedAt:         in.ReportedAt,
		VerificationStatus: in.VerificationStatus,
	}
	if in.RawData != nil {
		raw, err := json.Marshal(in.RawData)
		if err != nil {
			return IncidentRow{}, err
		}
		row.RawData = datatypes.JSON(raw)
	}
	return row, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
