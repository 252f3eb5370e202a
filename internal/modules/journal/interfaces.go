package journal

import (
	"context"

	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/mediastore"
)

// MediaDeleter removes binary assets from the external media store.
type MediaDeleter interface {
	Delete(ctx context.Context, publicID string) (*mediastore.DeleteResult, error)
}

// EventPublisher is notified after a mutation has been committed.
type EventPublisher interface {
	PublishJournal(eventType string, journalID string, j *domain.Journal)
}

const (
	EventCreated = "journal.created"
	EventUpdated = "journal.updated"
	EventDeleted = "journal.deleted"
)
