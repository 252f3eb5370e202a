package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Journal is a dated entry with its owned media and shared tags.
type Journal struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   *string   `json:"content"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Media []Media `gorm:"foreignKey:JournalID;constraint:OnDelete:CASCADE" json:"media"`
	Tags  []Tag   `gorm:"many2many:journal_tags;" json:"tags"`
}

func (Journal) TableName() string { return "journals" }

func (j *Journal) BeforeCreate(*gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// PublicIDs returns the external asset ids of the journal media, skipping blanks.
func (j *Journal) PublicIDs() []string {
	ids := make([]string, 0, len(j.Media))
	for _, m := range j.Media {
		if m.PublicID != "" {
			ids = append(ids, m.PublicID)
		}
	}
	return ids
}

// JournalTag is a row of the journal/tag join table.
type JournalTag struct {
	JournalID string `gorm:"primaryKey;type:varchar(36)"`
	TagID     string `gorm:"primaryKey;type:varchar(36)"`
}

func (JournalTag) TableName() string { return "journal_tags" }
