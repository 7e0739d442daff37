package dto

import (
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/utils"
)

// EventDTO represents an event in API responses
type EventDTO struct {
	ID             uint64             `json:"id"`
	Name           string             `json:"nome"`
	Description    string             `json:"descricao"`
	StartDate      time.Time          `json:"data_inicio"`
	EndDate        time.Time          `json:"data_fim"`
	Location       string             `json:"local"`
	Block          string             `json:"bloco,omitempty"`
	Capacity       int                `json:"capacidade"`
	Status         models.EventStatus `json:"status"`
	OrganizerID    uint64             `json:"organizador_id"`
	Organizer      *UserSummaryDTO    `json:"organizador,omitempty"`
	ConfirmedCount int64              `json:"quantidade_inscritos"`
	AvailableSeats int64              `json:"vagas_disponiveis"`
	Activities     []ActivityDTO      `json:"atividades,omitempty"`
	CreatedAt      time.Time          `json:"criado_em"`
	UpdatedAt      time.Time          `json:"atualizado_em"`
}

// EventSummaryDTO is the event shape embedded in registrations and certificates
type EventSummaryDTO struct {
	ID        uint64             `json:"id"`
	Name      string             `json:"nome"`
	StartDate time.Time          `json:"data_inicio"`
	EndDate   time.Time          `json:"data_fim"`
	Location  string             `json:"local"`
	Status    models.EventStatus `json:"status"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events     []EventDTO `json:"eventos"`
	Page       int        `json:"pagina"`
	PageSize   int        `json:"tamanho"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_paginas"`
}

// EventResponse wraps a mutated event
type EventResponse struct {
	Message string   `json:"mensagem"`
	Event   EventDTO `json:"evento"`
}

// ActivityDTO represents an activity in API responses
type ActivityDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	StartDate   time.Time `json:"data_inicio"`
	EndDate     time.Time `json:"data_fim"`
	EventID     uint64    `json:"evento_id"`
}

// ActivityResponse wraps a mutated activity
type ActivityResponse struct {
	Message  string      `json:"mensagem"`
	Activity ActivityDTO `json:"atividade"`
}

// FileDTO represents uploaded file metadata
type FileDTO struct {
	ID        uint64    `json:"id"`
	Filename  string    `json:"nome_arquivo"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"type"`
	EventID   uint64    `json:"evento_id"`
	CreatedAt time.Time `json:"criado_em"`
}

// FileResponse wraps an uploaded file
type FileResponse struct {
	Message string  `json:"mensagem"`
	File    FileDTO `json:"arquivo"`
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event) EventDTO {
	available := int64(event.Capacity) - event.ConfirmedCount
	if available < 0 {
		available = 0
	}

	dto := EventDTO{
		ID:             event.ID,
		Name:           event.Name,
		Description:    event.Description,
		StartDate:      event.StartDate,
		EndDate:        event.EndDate,
		Location:       event.Location,
		Block:          event.Block,
		Capacity:       event.Capacity,
		Status:         event.Status,
		OrganizerID:    event.OrganizerID,
		Organizer:      toUserSummary(event.Organizer),
		ConfirmedCount: event.ConfirmedCount,
		AvailableSeats: available,
		CreatedAt:      event.CreatedAt,
		UpdatedAt:      event.UpdatedAt,
	}
	if len(event.Activities) > 0 {
		dto.Activities = ToActivityDTOs(event.Activities)
	}
	return dto
}

// ToEventListResponse builds a page of events
func ToEventListResponse(events []models.Event, page, pageSize int, total int64) EventListResponse {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = ToEventDTO(e)
	}
	return EventListResponse{
		Events:     dtos,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: utils.TotalPages(total, pageSize),
	}
}

func toEventSummary(event models.Event) *EventSummaryDTO {
	if event.ID == 0 {
		return nil
	}
	return &EventSummaryDTO{
		ID:        event.ID,
		Name:      event.Name,
		StartDate: event.StartDate,
		EndDate:   event.EndDate,
		Location:  event.Location,
		Status:    event.Status,
	}
}

func ToActivityDTO(activity models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:          activity.ID,
		Name:        activity.Name,
		Description: activity.Description,
		StartDate:   activity.StartDate,
		EndDate:     activity.EndDate,
		EventID:     activity.EventID,
	}
}

func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = ToActivityDTO(a)
	}
	return dtos
}

func ToFileDTO(file models.File) FileDTO {
	return FileDTO{
		ID:        file.ID,
		Filename:  file.Filename,
		URL:       file.URL,
		Size:      file.Size,
		MimeType:  file.MimeType,
		EventID:   file.EventID,
		CreatedAt: file.CreatedAt,
	}
}

func ToFileDTOs(files []models.File) []FileDTO {
	dtos := make([]FileDTO, len(files))
	for i, f := range files {
		dtos[i] = ToFileDTO(f)
	}
	return dtos
}
