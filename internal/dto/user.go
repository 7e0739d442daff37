package dto

import (
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
)

// MessageResponse is the body of mutations that return nothing else
type MessageResponse struct {
	Message string `json:"mensagem"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                 uint64      `json:"id"`
	Name               string      `json:"nome"`
	Email              string      `json:"email"`
	RegistrationNumber *string     `json:"matricula"`
	Role               models.Role `json:"papel"`
	CreatedAt          time.Time   `json:"criado_em"`
}

// UserSummaryDTO is the user shape embedded in other resources
type UserSummaryDTO struct {
	ID                 uint64  `json:"id"`
	Name               string  `json:"nome"`
	Email              string  `json:"email"`
	RegistrationNumber *string `json:"matricula,omitempty"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Message     string  `json:"mensagem,omitempty"`
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"usuario"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		RegistrationNumber: user.RegistrationNumber,
		Role:               user.Role,
		CreatedAt:          user.CreatedAt,
	}
}

// toUserSummary returns nil for relations that were not loaded
func toUserSummary(user models.User) *UserSummaryDTO {
	if user.ID == 0 {
		return nil
	}
	return &UserSummaryDTO{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		RegistrationNumber: user.RegistrationNumber,
	}
}
