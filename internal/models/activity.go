package models

import "time"

type Activity struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"nome"`
	Description string    `gorm:"type:text" json:"descricao"`
	StartDate   time.Time `gorm:"not null" json:"data_inicio"`
	EndDate     time.Time `gorm:"not null" json:"data_fim"`
	EventID     uint64    `gorm:"not null;index" json:"evento_id"`
	CreatedAt   time.Time `json:"criado_em"`
	UpdatedAt   time.Time `json:"atualizado_em"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}
