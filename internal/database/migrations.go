package database

import (
	"fmt"

	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that struct tags do not express
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		// Registration lookups by event and status drive capacity counts
		{&models.Registration{}, "idx_registrations_event_status", "event_id, status"},

		// Listing orders events by start date within a status
		{&models.Event{}, "idx_events_status_start_date", "status, start_date"},
		{&models.Event{}, "idx_events_organizer_start_date", "organizer_id, start_date"},

		// Activities are listed per event ordered by start
		{&models.Activity{}, "idx_activities_event_start_date", "event_id, start_date"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logging.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.Info().Str("index", idx.name).Str("table", stmt.Schema.Table).Msg("created index")
	}

	return nil
}
