package models

import "time"

type File struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"nome_arquivo"`
	StoredName string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	URL        string    `gorm:"type:varchar(512);not null" json:"url"`
	Size       int64     `gorm:"not null" json:"size"`
	MimeType   string    `gorm:"type:varchar(100)" json:"type"`
	EventID    uint64    `gorm:"not null;index" json:"evento_id"`
	CreatedAt  time.Time `json:"criado_em"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}
