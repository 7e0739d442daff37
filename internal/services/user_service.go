package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/repository"
	"gorm.io/gorm"
)

// UserService handles profile reads and updates.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput holds optional profile changes.
type UpdateProfileInput struct {
	Name               *string
	Email              *string
	Password           *string
	RegistrationNumber *string
}

func (s *UserService) GetProfile(ctx context.Context, id uint64) (*models.User, error) {
	return s.find(ctx, id)
}

// UpdateProfile applies input to targetID. Users may only update themselves.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, targetID uint64, input UpdateProfileInput) (*models.User, error) {
	if actorID != targetID {
		return nil, ErrProfileForbidden
	}

	user, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if err := ensureEmailFree(ctx, s.userRepo, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if input.RegistrationNumber != nil {
		number := normalizeRegistrationNumber(input.RegistrationNumber)
		if number != nil {
			if err := ensureRegistrationNumberFree(ctx, s.userRepo, *number, user.ID); err != nil {
				return nil, err
			}
		}
		user.RegistrationNumber = number
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateUserError(ctx, s.userRepo, user)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// GetByRegistrationNumber looks a user up by university registration number.
func (s *UserService) GetByRegistrationNumber(ctx context.Context, number string) (*models.User, error) {
	user, err := s.userRepo.FindByRegistrationNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) find(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
