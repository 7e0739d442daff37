package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/event-management-api/internal/database"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrEventNotFound is returned when the event of a registration does not exist.
	ErrEventNotFound = errors.New("registration repository: event not found")
	// ErrEventNotOpen is returned when the event is not accepting registrations.
	ErrEventNotOpen = errors.New("registration repository: event not open for registration")
	// ErrEventEnded is returned when the event end date has passed.
	ErrEventEnded = errors.New("registration repository: event already ended")
	// ErrAlreadyRegistered is returned when the user already holds a registration for the event.
	ErrAlreadyRegistered = errors.New("registration repository: already registered")
	// ErrEventFull is returned when confirmed registrations reached capacity.
	ErrEventFull = errors.New("registration repository: event is full")
	// ErrCertificateIssued is returned when deleting a registration that already has a certificate.
	ErrCertificateIssued = errors.New("registration repository: certificate already issued")
)

// GormRegistrationRepository is a GORM implementation of RegistrationRepository
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// CreateConfirmed runs the whole check-and-insert sequence in one transaction.
// The unique (user_id, event_id) index backs the duplicate check.
func (r *GormRegistrationRepository) CreateConfirmed(ctx context.Context, eventID, userID uint64, now time.Time) (*models.Registration, error) {
	registration := &models.Registration{
		UserID:  userID,
		EventID: eventID,
		Status:  models.RegistrationStatusConfirmed,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := forUpdate(tx).First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.Status != models.EventStatusActive {
			return ErrEventNotOpen
		}
		if event.HasEnded(now) {
			return ErrEventEnded
		}

		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		confirmed, err := countConfirmed(tx, eventID)
		if err != nil {
			return err
		}
		if confirmed >= int64(event.Capacity) {
			return ErrEventFull
		}

		if err := tx.Omit("User", "Event", "Certificate").Create(registration).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registration, nil
}

// Find finds the registration of a user for an event
func (r *GormRegistrationRepository) Find(ctx context.Context, eventID, userID uint64) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindByID finds a registration by ID with optional preloading
func (r *GormRegistrationRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Registration, error) {
	var registration models.Registration
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// Delete hard deletes a registration. Registrations with a certificate are kept.
func (r *GormRegistrationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var certificates int64
		if err := tx.Model(&models.Certificate{}).
			Where("registration_id = ?", id).
			Count(&certificates).Error; err != nil {
			return err
		}
		if certificates > 0 {
			return ErrCertificateIssued
		}

		result := tx.Delete(&models.Registration{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateStatus changes the status. Confirming re-checks capacity under the event lock.
func (r *GormRegistrationRepository) UpdateStatus(ctx context.Context, id uint64, status models.RegistrationStatus) (*models.Registration, error) {
	var registration models.Registration

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registration, id).Error; err != nil {
			return err
		}
		if registration.Status == status {
			return nil
		}

		if status == models.RegistrationStatusConfirmed {
			var event models.Event
			if err := forUpdate(tx).First(&event, registration.EventID).Error; err != nil {
				return err
			}
			confirmed, err := countConfirmed(tx, registration.EventID)
			if err != nil {
				return err
			}
			if confirmed >= int64(event.Capacity) {
				return ErrEventFull
			}
		}

		registration.Status = status
		return tx.Model(&models.Registration{ID: id}).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	return &registration, nil
}

// ListByUser lists a user's registrations with events, newest first
func (r *GormRegistrationRepository) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]models.Registration, int64, error) {
	registrations := []models.Registration{}

	query := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("registrations.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order("registrations.created_at DESC").
		Order("registrations.id DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(page, pageSize)))
	}

	if err := listQuery.Preload("Event").Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// ListByEvent lists registrations of an event with users, oldest first
func (r *GormRegistrationRepository) ListByEvent(ctx context.Context, eventID uint64) ([]models.Registration, error) {
	registrations := []models.Registration{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Preload("User").
		Find(&registrations).Error
	return registrations, err
}

// ListEligibleForCertificate lists confirmed or pending registrations with certificate and user
func (r *GormRegistrationRepository) ListEligibleForCertificate(ctx context.Context, eventID uint64) ([]models.Registration, error) {
	registrations := []models.Registration{}
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status IN ?", eventID, models.CertificateEligibleStatuses).
		Order("id ASC").
		Preload("User").
		Preload("Certificate").
		Find(&registrations).Error
	return registrations, err
}

func countConfirmed(tx *gorm.DB, eventID uint64) (int64, error) {
	var confirmed int64
	err := tx.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegistrationStatusConfirmed).
		Count(&confirmed).Error
	return confirmed, err
}
