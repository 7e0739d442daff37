package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/repository"
	"github.com/yukikurage/event-management-api/internal/storage"
	"gorm.io/gorm"
)

// EventService handles event business logic
type EventService struct {
	eventRepo repository.EventRepository
	fileRepo  repository.FileRepository
	files     storage.FileStore
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, fileRepo repository.FileRepository, files storage.FileStore) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		fileRepo:  fileRepo,
		files:     files,
		now:       time.Now,
	}
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Block       string
	Capacity    *int
}

// UpdateEventInput represents a partial event update
type UpdateEventInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Block       *string
	Capacity    *int
	Status      *models.EventStatus
}

// ListEventsInput represents filters for listing events
type ListEventsInput struct {
	Search    string
	Status    *models.EventStatus
	StartFrom *time.Time
	EndUntil  *time.Time
	Page      int
	PageSize  int
}

// EventPage is one page of events with the total match count.
type EventPage struct {
	Events   []models.Event
	Total    int64
	Page     int
	PageSize int
}

// Create creates an ativo event owned by organizerID
func (s *EventService) Create(ctx context.Context, input CreateEventInput, organizerID uint64) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEventNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	capacity := constants.DefaultEventCapacity
	if input.Capacity != nil {
		capacity = *input.Capacity
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = constants.DefaultEventLocation
	}

	event := &models.Event{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    location,
		Block:       strings.TrimSpace(input.Block),
		Capacity:    capacity,
		Status:      models.EventStatusActive,
		OrganizerID: organizerID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.GetByID(ctx, event.ID)
}

// GetByID returns an event with organizer, activities and confirmed count
func (s *EventService) GetByID(ctx context.Context, id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id, "Organizer", "Activities")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	counts, err := s.eventRepo.CountConfirmed(ctx, []uint64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	event.ConfirmedCount = counts[id]

	return event, nil
}

// GetEvents lists events matching input, newest start date first
func (s *EventService) GetEvents(ctx context.Context, input ListEventsInput) (*EventPage, error) {
	return s.list(ctx, input, nil)
}

// ListByOrganizer lists events owned by organizerID
func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uint64, input ListEventsInput) (*EventPage, error) {
	return s.list(ctx, input, &organizerID)
}

func (s *EventService) list(ctx context.Context, input ListEventsInput, organizerID *uint64) (*EventPage, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidEventStatus
	}

	events, total, err := s.eventRepo.List(ctx, repository.EventFilter{
		Search:      strings.TrimSpace(input.Search),
		Status:      input.Status,
		OrganizerID: organizerID,
		StartFrom:   input.StartFrom,
		EndUntil:    input.EndUntil,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	ids := make([]uint64, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	counts, err := s.eventRepo.CountConfirmed(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	for i := range events {
		events[i].ConfirmedCount = counts[events[i].ID]
	}

	return &EventPage{
		Events:   events,
		Total:    total,
		Page:     input.Page,
		PageSize: input.PageSize,
	}, nil
}

// Update applies a partial update to an upcoming event owned by organizerID
func (s *EventService) Update(ctx context.Context, id uint64, input UpdateEventInput, organizerID uint64) (*models.Event, error) {
	event, err := ownedEvent(ctx, s.eventRepo, id, organizerID)
	if err != nil {
		return nil, err
	}
	if event.HasStarted(s.now()) {
		return nil, ErrPastEventEdit
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrEventNameRequired
		}
		event.Name = name
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		event.EndDate = *input.EndDate
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" {
			location = constants.DefaultEventLocation
		}
		event.Location = location
	}
	if input.Block != nil {
		event.Block = strings.TrimSpace(*input.Block)
	}
	if input.Capacity != nil {
		if *input.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		event.Capacity = *input.Capacity
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidEventStatus
		}
		if !event.Status.CanTransitionTo(*input.Status) {
			return nil, ErrInvalidTransition
		}
		event.Status = *input.Status
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityBelowConfirmed):
			return nil, ErrCapacityBelowConfirmed
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrEventNotFound
		default:
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// UpdateStatus moves an event along ativo -> em andamento -> concluido, or ativo -> cancelado
func (s *EventService) UpdateStatus(ctx context.Context, id uint64, status models.EventStatus, organizerID uint64) (*models.Event, error) {
	if !status.Valid() {
		return nil, ErrInvalidEventStatus
	}

	event, err := ownedEvent(ctx, s.eventRepo, id, organizerID)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if event.Status != status {
		if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, fmt.Errorf("failed to update event status: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Remove deletes an upcoming event with everything attached to it
func (s *EventService) Remove(ctx context.Context, id uint64, organizerID uint64) error {
	event, err := ownedEvent(ctx, s.eventRepo, id, organizerID)
	if err != nil {
		return err
	}
	if event.HasStarted(s.now()) {
		return ErrPastEventDelete
	}

	files, err := s.fileRepo.ListByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list event files: %w", err)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	for _, f := range files {
		if err := s.files.Remove(f.StoredName); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("file", f.StoredName).Msg("failed to remove event file from disk")
		}
	}

	return nil
}

// ownedEvent loads an event and checks that organizerID owns it
func ownedEvent(ctx context.Context, events repository.EventRepository, id, organizerID uint64, preload ...string) (*models.Event, error) {
	event, err := events.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOrganizer
	}
	return event, nil
}
