package dto

import (
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/utils"
)

// RegistrationDTO represents a registration in API responses
type RegistrationDTO struct {
	ID               uint64                    `json:"id"`
	UserID           uint64                    `json:"usuario_id"`
	EventID          uint64                    `json:"evento_id"`
	Status           models.RegistrationStatus `json:"status"`
	RegistrationDate time.Time                 `json:"data_inscricao"`
	User             *UserSummaryDTO           `json:"usuario,omitempty"`
	Event            *EventSummaryDTO          `json:"evento,omitempty"`
}

// RegistrationResponse wraps a mutated registration
type RegistrationResponse struct {
	Message      string          `json:"mensagem"`
	Registration RegistrationDTO `json:"inscricao"`
}

// ParticipantEventDTO is an event seen from a participant's registration
type ParticipantEventDTO struct {
	EventDTO
	RegistrationID     uint64                    `json:"inscricao_id"`
	RegistrationStatus models.RegistrationStatus `json:"inscricao_status"`
	RegistrationDate   time.Time                 `json:"data_inscricao"`
}

// ParticipantEventListResponse represents a paginated list of a participant's events
type ParticipantEventListResponse struct {
	Events     []ParticipantEventDTO `json:"eventos"`
	Page       int                   `json:"pagina"`
	PageSize   int                   `json:"tamanho"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"total_paginas"`
}

// ToRegistrationDTO converts a Registration model to RegistrationDTO
func ToRegistrationDTO(r models.Registration) RegistrationDTO {
	return RegistrationDTO{
		ID:               r.ID,
		UserID:           r.UserID,
		EventID:          r.EventID,
		Status:           r.Status,
		RegistrationDate: r.CreatedAt,
		User:             toUserSummary(r.User),
		Event:            toEventSummary(r.Event),
	}
}

func ToRegistrationDTOs(registrations []models.Registration) []RegistrationDTO {
	dtos := make([]RegistrationDTO, len(registrations))
	for i, r := range registrations {
		dtos[i] = ToRegistrationDTO(r)
	}
	return dtos
}

// ToParticipantEventListResponse flattens registrations into their events
func ToParticipantEventListResponse(registrations []models.Registration, page, pageSize int, total int64) ParticipantEventListResponse {
	events := make([]ParticipantEventDTO, len(registrations))
	for i, r := range registrations {
		events[i] = ParticipantEventDTO{
			EventDTO:           ToEventDTO(r.Event),
			RegistrationID:     r.ID,
			RegistrationStatus: r.Status,
			RegistrationDate:   r.CreatedAt,
		}
	}
	return ParticipantEventListResponse{
		Events:     events,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: utils.TotalPages(total, pageSize),
	}
}
