package journal

import (
	"time"

	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/utils"
)

type MediaInput struct {
	ID        string  `json:"id,omitempty"`
	URL       string  `json:"url" validate:"required"`
	PublicID  string  `json:"publicId" validate:"required"`
	MediaType string  `json:"mediaType" validate:"mediatype"`
	Caption   *string `json:"caption,omitempty"`
	Width     *int    `json:"width,omitempty"`
	Height    *int    `json:"height,omitempty"`
}

func (m MediaInput) toDomain() domain.Media {
	return domain.Media{
		URL:       m.URL,
		PublicID:  m.PublicID,
		MediaType: domain.MediaType(m.MediaType),
		Caption:   utils.NilIfBlank(m.Caption),
		Width:     nilIfZero(m.Width),
		Height:    nilIfZero(m.Height),
	}
}

// CreateInput is the desired state of a new journal.
type CreateInput struct {
	Title    string       `json:"title" validate:"notblank"`
	Content  *string      `json:"content"`
	Location *string      `json:"location"`
	Date     *time.Time   `json:"date"`
	Media    []MediaInput `json:"media" validate:"dive"`
	Tags     []string     `json:"tags"`
}

// UpdateInput is the full desired state of an existing journal. Media
// entries with an id are kept as they are, entries without one are inserted.
type UpdateInput struct {
	Title         string       `json:"title" validate:"notblank"`
	Content       *string      `json:"content"`
	Location      *string      `json:"location"`
	Date          *time.Time   `json:"date"`
	Media         []MediaInput `json:"media" validate:"dive"`
	Tags          []string     `json:"tags"`
	MediaToDelete []string     `json:"mediaToDelete"`
}

// NewMedia returns the entries that are not stored yet.
func (in UpdateInput) NewMedia() []MediaInput {
	var out []MediaInput
	for _, m := range in.Media {
		if m.ID == "" {
			out = append(out, m)
		}
	}
	return out
}

// JournalRequest is the HTTP body for create and update. Date accepts a
// calendar day or an RFC3339 timestamp.
type JournalRequest struct {
	Title         string       `json:"title"`
	Content       *string      `json:"content"`
	Location      *string      `json:"location"`
	Date          string       `json:"date"`
	Media         []MediaInput `json:"media"`
	Tags          []string     `json:"tags"`
	MediaToDelete []string     `json:"mediaToDelete"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

func nilIfZero(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
