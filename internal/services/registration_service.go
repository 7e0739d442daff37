package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/metrics"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/notify"
	"github.com/yukikurage/event-management-api/internal/repository"
	"gorm.io/gorm"
)

// RegistrationService handles participant registrations
type RegistrationService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	notifier         notify.Notifier
	now              func() time.Time
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(registrationRepo repository.RegistrationRepository, eventRepo repository.EventRepository, notifier notify.Notifier) *RegistrationService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &RegistrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		notifier:         notifier,
		now:              time.Now,
	}
}

// RegistrationPage is one page of a participant's registrations
type RegistrationPage struct {
	Registrations []models.Registration
	Total         int64
	Page          int
	PageSize      int
}

// RegisterForEvent confirms userID on eventID if the event is open and has room
func (s *RegistrationService) RegisterForEvent(ctx context.Context, eventID, userID uint64) (*models.Registration, error) {
	created, err := s.registrationRepo.CreateConfirmed(ctx, eventID, userID, s.now())
	if err != nil {
		outcome, mapped := mapRegistrationError(err)
		metrics.RegistrationAttempts.WithLabelValues(outcome).Inc()
		return nil, mapped
	}
	metrics.RegistrationAttempts.WithLabelValues("confirmed").Inc()

	registration, err := s.registrationRepo.FindByID(ctx, created.ID, "Event", "User")
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	s.publish(ctx, notify.TypeRegistrationConfirmed, registration)
	return registration, nil
}

func mapRegistrationError(err error) (string, error) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return "not_found", ErrEventNotFound
	case errors.Is(err, repository.ErrEventNotOpen):
		return "closed", ErrEventNotOpen
	case errors.Is(err, repository.ErrEventEnded):
		return "closed", ErrEventEnded
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return "duplicate", ErrAlreadyRegistered
	case errors.Is(err, repository.ErrEventFull):
		return "full", ErrEventFull
	default:
		return "error", fmt.Errorf("failed to register: %w", err)
	}
}

// CancelRegistration hard deletes the registration of userID on eventID
func (s *RegistrationService) CancelRegistration(ctx context.Context, eventID, userID uint64) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to find event: %w", err)
	}
	if event.Status == models.EventStatusCompleted {
		return ErrEventCompleted
	}

	found, err := s.registrationRepo.Find(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to find registration: %w", err)
	}
	registration, err := s.registrationRepo.FindByID(ctx, found.ID, "User")
	if err != nil {
		return fmt.Errorf("failed to load registration: %w", err)
	}
	registration.Event = *event

	if err := s.registrationRepo.Delete(ctx, registration.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCertificateIssued):
			return ErrCertificateAlreadyIssued
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrRegistrationNotFound
		default:
			return fmt.Errorf("failed to cancel registration: %w", err)
		}
	}
	metrics.RegistrationCancellations.Inc()

	s.publish(ctx, notify.TypeRegistrationCancelled, registration)
	return nil
}

// ListParticipantEvents lists the registrations of userID with their events, newest event first
func (s *RegistrationService) ListParticipantEvents(ctx context.Context, userID uint64, page, pageSize int) (*RegistrationPage, error) {
	registrations, total, err := s.registrationRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return &RegistrationPage{
		Registrations: registrations,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// ListEventRegistrations lists registrations of an event owned by organizerID
func (s *RegistrationService) ListEventRegistrations(ctx context.Context, eventID, organizerID uint64) ([]models.Registration, error) {
	if _, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID); err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

// UpdateRegistrationStatus lets the organizer confirm, hold or cancel a registration
func (s *RegistrationService) UpdateRegistrationStatus(ctx context.Context, registrationID uint64, status models.RegistrationStatus, organizerID uint64) (*models.Registration, error) {
	if !status.Valid() {
		return nil, ErrInvalidRegistrationState
	}

	registration, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	if _, err := ownedEvent(ctx, s.eventRepo, registration.EventID, organizerID); err != nil {
		return nil, err
	}

	if _, err := s.registrationRepo.UpdateStatus(ctx, registrationID, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventFull):
			return nil, ErrEventFull
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRegistrationNotFound
		default:
			return nil, fmt.Errorf("failed to update registration: %w", err)
		}
	}

	updated, err := s.registrationRepo.FindByID(ctx, registrationID, "User", "Event")
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	return updated, nil
}

// publish hands a notification off. Failures are logged and never fail the request.
func (s *RegistrationService) publish(ctx context.Context, typ notify.Type, r *models.Registration) {
	n := notify.Notification{
		Type:           typ,
		RecipientEmail: r.User.Email,
		RecipientName:  r.User.Name,
		EventID:        r.EventID,
		EventName:      r.Event.Name,
		EventStart:     r.Event.StartDate,
		OccurredAt:     s.now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", string(typ)).Uint64("registration_id", r.ID).Msg("notification not published")
	}
}
