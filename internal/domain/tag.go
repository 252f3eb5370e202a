package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a globally unique label. Names are matched by exact string equality.
type Tag struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
