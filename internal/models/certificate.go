package models

import "time"

// Certificate attests participation. At most one per registration.
type Certificate struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	RegistrationID uint64    `gorm:"not null;uniqueIndex" json:"inscricao_id"`
	Code           string    `gorm:"type:varchar(48);not null;uniqueIndex" json:"codigo"`
	IssueDate      time.Time `gorm:"not null" json:"data_emissao"`
	URL            *string   `gorm:"type:varchar(512)" json:"url"`
	CreatedAt      time.Time `json:"criado_em"`
	UpdatedAt      time.Time `json:"atualizado_em"`

	// Relations
	Registration Registration `gorm:"foreignKey:RegistrationID" json:"inscricao,omitempty"`
}
