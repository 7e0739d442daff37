package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "ativo"
	EventStatusOngoing   EventStatus = "em andamento"
	EventStatusCompleted EventStatus = "concluido"
	EventStatusCancelled EventStatus = "cancelado"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusActive, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// eventTransitions lists the manual moves allowed from each status.
var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusActive:  {EventStatusOngoing, EventStatusCancelled},
	EventStatusOngoing: {EventStatusCompleted},
}

// CanTransitionTo reports whether an event may move from s to next.
// Staying in the same status is always allowed.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Event struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"nome"`
	Description string      `gorm:"type:text" json:"descricao"`
	StartDate   time.Time   `gorm:"not null;index" json:"data_inicio"`
	EndDate     time.Time   `gorm:"not null" json:"data_fim"`
	Location    string      `gorm:"type:varchar(255)" json:"local"`
	Block       string      `gorm:"type:varchar(100)" json:"bloco"`
	Capacity    int         `gorm:"not null;default:100" json:"capacidade"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'ativo';index" json:"status"`
	OrganizerID uint64      `gorm:"not null;index" json:"organizador_id"`
	CreatedAt   time.Time   `json:"criado_em"`
	UpdatedAt   time.Time   `json:"atualizado_em"`

	// Relations
	Organizer     User           `gorm:"foreignKey:OrganizerID" json:"organizador,omitempty"`
	Activities    []Activity     `gorm:"foreignKey:EventID" json:"atividades,omitempty"`
	Files         []File         `gorm:"foreignKey:EventID" json:"arquivos,omitempty"`
	Registrations []Registration `gorm:"foreignKey:EventID" json:"-"`

	// ConfirmedCount is filled by queries that count confirmed registrations.
	ConfirmedCount int64 `gorm:"-" json:"quantidade_inscritos"`
}

// HasStarted reports whether the event start is at or before now.
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartDate.After(now)
}

// HasEnded reports whether the event end is before now.
func (e *Event) HasEnded(now time.Time) bool {
	return e.EndDate.Before(now)
}
