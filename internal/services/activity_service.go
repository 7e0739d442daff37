package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/repository"
	"gorm.io/gorm"
)

// ActivityService handles activities of events
type ActivityService struct {
	activityRepo repository.ActivityRepository
	eventRepo    repository.EventRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository, eventRepo repository.EventRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		eventRepo:    eventRepo,
	}
}

type CreateActivityInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

type UpdateActivityInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *ActivityService) Create(ctx context.Context, eventID uint64, input CreateActivityInput, organizerID uint64) (*models.Activity, error) {
	if _, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrActivityNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	activity := &models.Activity{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		EventID:     eventID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Update(ctx context.Context, id uint64, input UpdateActivityInput, organizerID uint64) (*models.Activity, error) {
	activity, err := s.owned(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrActivityNameRequired
		}
		activity.Name = name
	}
	if input.Description != nil {
		activity.Description = strings.TrimSpace(*input.Description)
	}
	if input.StartDate != nil {
		activity.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		activity.EndDate = *input.EndDate
	}
	if activity.EndDate.Before(activity.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Remove(ctx context.Context, id uint64, organizerID uint64) error {
	if _, err := s.owned(ctx, id, organizerID); err != nil {
		return err
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// ListByEvent lists activities of an existing event ordered by start
func (s *ActivityService) ListByEvent(ctx context.Context, eventID uint64) ([]models.Activity, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	activities, err := s.activityRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *ActivityService) GetByID(ctx context.Context, id uint64) (*models.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return activity, nil
}

// owned loads an activity whose event belongs to organizerID
func (s *ActivityService) owned(ctx context.Context, id, organizerID uint64) (*models.Activity, error) {
	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, activity.EventID, organizerID); err != nil {
		return nil, err
	}
	return activity, nil
}
