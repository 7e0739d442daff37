package models

import (
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizer   Role = "organizador"
	RoleParticipant Role = "participante"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleParticipant:
		return true
	}
	return false
}

type User struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"type:varchar(255);not null" json:"nome"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"type:varchar(255);not null" json:"-"`
	RegistrationNumber *string   `gorm:"type:varchar(50);uniqueIndex" json:"matricula"`
	Role               Role      `gorm:"type:varchar(20);not null;default:'participante'" json:"papel"`
	CreatedAt          time.Time `json:"criado_em"`
	UpdatedAt          time.Time `json:"atualizado_em"`

	// Relations
	OrganizedEvents []Event        `gorm:"foreignKey:OrganizerID" json:"-"`
	Registrations   []Registration `gorm:"foreignKey:UserID" json:"-"`
}
