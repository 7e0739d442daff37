package models

import "time"

type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmada"
	RegistrationStatusPending   RegistrationStatus = "pendente"
	RegistrationStatusCancelled RegistrationStatus = "cancelada"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusConfirmed, RegistrationStatusPending, RegistrationStatusCancelled:
		return true
	}
	return false
}

// CertificateEligibleStatuses are the registration statuses that receive certificates.
var CertificateEligibleStatuses = []RegistrationStatus{
	RegistrationStatusConfirmed,
	RegistrationStatusPending,
}

// Registration links a user to an event. One per (user, event).
type Registration struct {
	ID        uint64             `gorm:"primarykey" json:"id"`
	UserID    uint64             `gorm:"not null;uniqueIndex:idx_registration_user_event" json:"usuario_id"`
	EventID   uint64             `gorm:"not null;uniqueIndex:idx_registration_user_event;index" json:"evento_id"`
	Status    RegistrationStatus `gorm:"type:varchar(20);not null;default:'confirmada'" json:"status"`
	CreatedAt time.Time          `json:"data_inscricao"`
	UpdatedAt time.Time          `json:"atualizado_em"`

	// Relations
	User        User         `gorm:"foreignKey:UserID" json:"usuario,omitempty"`
	Event       Event        `gorm:"foreignKey:EventID" json:"evento,omitempty"`
	Certificate *Certificate `gorm:"foreignKey:RegistrationID" json:"certificado,omitempty"`
}
