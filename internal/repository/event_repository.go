package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/event-management-api/internal/database"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCapacityBelowConfirmed is returned when an update would set capacity under the confirmed count.
	ErrCapacityBelowConfirmed = errors.New("event repository: capacity below confirmed registrations")
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("Organizer").Create(event).Error
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		switch p {
		case "Activities":
			query = query.Preload(p, func(db *gorm.DB) *gorm.DB {
				return db.Order("activities.start_date ASC")
			})
		default:
			query = query.Preload(p)
		}
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// List retrieves events with filtering and pagination, newest start date first
func (r *GormEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	var events []models.Event

	query := r.db.WithContext(ctx).Model(&models.Event{})

	if filter.Search != "" {
		query = query.Scopes(searchEvents(filter.Search))
	}
	if filter.Status != nil {
		query = query.Where("events.status = ?", *filter.Status)
	}
	if filter.OrganizerID != nil {
		query = query.Where("events.organizer_id = ?", *filter.OrganizerID)
	}
	if filter.StartFrom != nil {
		query = query.Where("events.start_date >= ?", *filter.StartFrom)
	}
	if filter.EndUntil != nil {
		query = query.Where("events.end_date <= ?", *filter.EndUntil)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("events.start_date DESC").Order("events.id DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Organizer").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// CountConfirmed returns confirmed registration counts keyed by event ID.
// Events without confirmed registrations are absent from the map.
func (r *GormEventRepository) CountConfirmed(ctx context.Context, eventIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ? AND status = ?", eventIDs, models.RegistrationStatusConfirmed).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

// Update writes mutable fields under a row lock so capacity never drops below confirmed registrations
func (r *GormEventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Event
		if err := forUpdate(tx).First(&current, event.ID).Error; err != nil {
			return err
		}

		if event.Capacity < current.Capacity {
			var confirmed int64
			if err := tx.Model(&models.Registration{}).
				Where("event_id = ? AND status = ?", event.ID, models.RegistrationStatusConfirmed).
				Count(&confirmed).Error; err != nil {
				return err
			}
			if int64(event.Capacity) < confirmed {
				return ErrCapacityBelowConfirmed
			}
		}

		return tx.Model(&models.Event{ID: event.ID}).
			Select("Name", "Description", "StartDate", "EndDate", "Location", "Block", "Capacity", "Status").
			Updates(event).Error
	})
}

// UpdateStatus writes only the status column
func (r *GormEventRepository) UpdateStatus(ctx context.Context, id uint64, status models.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{ID: id}).
		Update("status", status).Error
}

// Delete removes an event and everything that hangs off it
func (r *GormEventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registrationIDs := tx.Model(&models.Registration{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("registration_id IN (?)", registrationIDs).Delete(&models.Certificate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.File{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func searchEvents(term string) func(db *gorm.DB) *gorm.DB {
	return database.SearchAny(term, "events.name", "events.description", "events.location")
}
