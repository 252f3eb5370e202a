package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

// Media references a binary asset held by the external media store.
type Media struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	URL       string    `gorm:"not null" json:"url"`
	PublicID  string    `gorm:"not null" json:"publicId"`
	MediaType MediaType `gorm:"type:varchar(10);not null" json:"mediaType"`
	Caption   *string   `json:"caption"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
	JournalID string    `gorm:"type:varchar(36);not null;index" json:"journalId"`
}

func (Media) TableName() string { return "media" }

func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
