package repository

import (
	"context"
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByRegistrationNumber finds a user by university registration number
	FindByRegistrationNumber(ctx context.Context, number string) (*models.User, error)

	// Update saves profile fields of a user
	Update(ctx context.Context, user *models.User) error
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *models.Event) error

	// FindByID finds an event by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error)

	// List retrieves events with filtering and pagination
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)

	// CountConfirmed returns confirmed registration counts keyed by event ID
	CountConfirmed(ctx context.Context, eventIDs []uint64) (map[uint64]int64, error)

	// Update writes mutable fields. The organizer is never written.
	Update(ctx context.Context, event *models.Event) error

	// UpdateStatus writes only the status column
	UpdateStatus(ctx context.Context, id uint64, status models.EventStatus) error

	// Delete removes an event with its activities, files, registrations and certificates
	Delete(ctx context.Context, id uint64) error
}

// EventFilter holds filtering options for listing events
type EventFilter struct {
	Search      string
	Status      *models.EventStatus
	OrganizerID *uint64
	StartFrom   *time.Time
	EndUntil    *time.Time
	Page        int
	PageSize    int
}

// ActivityRepository defines the interface for activity data access
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Activity, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint64) error
}

// FileRepository defines the interface for uploaded file metadata
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	FindByID(ctx context.Context, id uint64) (*models.File, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]models.File, error)
	Delete(ctx context.Context, id uint64) error
}

// RegistrationRepository defines the interface for registration data access
type RegistrationRepository interface {
	// CreateConfirmed registers userID for eventID inside one transaction:
	// lock the event, check status, duplicates and confirmed capacity, insert.
	CreateConfirmed(ctx context.Context, eventID, userID uint64, now time.Time) (*models.Registration, error)

	// Find finds the registration of a user for an event
	Find(ctx context.Context, eventID, userID uint64) (*models.Registration, error)

	// FindByID finds a registration by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Registration, error)

	// Delete hard deletes a registration unless a certificate was issued for it
	Delete(ctx context.Context, id uint64) error

	// UpdateStatus changes the status, re-checking capacity when confirming
	UpdateStatus(ctx context.Context, id uint64, status models.RegistrationStatus) (*models.Registration, error)

	// ListByUser lists a user's registrations with their events, newest event first
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]models.Registration, int64, error)

	// ListByEvent lists registrations of an event with their users
	ListByEvent(ctx context.Context, eventID uint64) ([]models.Registration, error)

	// ListEligibleForCertificate lists confirmed or pending registrations with their certificate, if any
	ListEligibleForCertificate(ctx context.Context, eventID uint64) ([]models.Registration, error)
}

// CertificateRepository defines the interface for certificate data access
type CertificateRepository interface {
	// Create inserts one certificate. A second certificate for the same
	// registration fails with gorm.ErrDuplicatedKey.
	Create(ctx context.Context, cert *models.Certificate) error

	// CreateIfAbsent inserts each certificate unless its registration already has one.
	// It returns only the rows actually inserted.
	CreateIfAbsent(ctx context.Context, certs []models.Certificate) ([]models.Certificate, error)

	// FindByID finds a certificate with its registration, user, event and organizer
	FindByID(ctx context.Context, id uint64) (*models.Certificate, error)

	// FindByCode finds a certificate by verification code
	FindByCode(ctx context.Context, code string) (*models.Certificate, error)

	ListByEvent(ctx context.Context, eventID uint64) ([]models.Certificate, error)
	ListByUser(ctx context.Context, userID uint64) ([]models.Certificate, error)

	// UpdateURL stores the rendered image location
	UpdateURL(ctx context.Context, id uint64, url string) error

	Delete(ctx context.Context, id uint64) error
}
