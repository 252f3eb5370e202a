package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one *gorm.DB handle so the
// aggregate services can run several writes inside a single transaction.
type Store struct {
	db       *gorm.DB
	Journals *JournalRepository
	Media    *MediaRepository
	Tags     *TagRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Journals: NewJournalRepository(db),
		Media:    NewMediaRepository(db),
		Tags:     NewTagRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to one database transaction.
// Returning an error from fn rolls every write back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
