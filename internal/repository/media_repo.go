package repository

import (
	"context"

	"amphomeus/internal/domain"

	"gorm.io/gorm"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) CreateMany(ctx context.Context, journalID string, media []domain.Media) error {
	if len(media) == 0 {
		return nil
	}
	for i := range media {
		media[i].JournalID = journalID
	}
	if err := r.db.WithContext(ctx).Create(&media).Error; err != nil {
		return translate(err)
	}
	return nil
}

// DeleteForJournal removes the media rows in ids that belong to journalID and
// returns the rows that were actually removed. Ids owned by other journals
// are ignored.
func (r *MediaRepository) DeleteForJournal(ctx context.Context, journalID string, ids []string) ([]domain.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.db.WithContext(ctx)

	var found []domain.Media
	err := db.Where("journal_id = ? AND id IN ?", journalID, ids).
		Find(&found).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(found) == 0 {
		return nil, nil
	}

	removeIDs := make([]string, 0, len(found))
	for _, m := range found {
		removeIDs = append(removeIDs, m.ID)
	}

	err = db.Where("journal_id = ? AND id IN ?", journalID, removeIDs).
		Delete(&domain.Media{}).Error
	if err != nil {
		return nil, translate(err)
	}
	return found, nil
}

func (r *MediaRepository) ListByJournal(ctx context.Context, journalID string) ([]domain.Media, error) {
	var out []domain.Media
	err := r.db.WithContext(ctx).
		Where("journal_id = ?", journalID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// ListPublicIDs returns every storage key still referenced by a media row.
func (r *MediaRepository) ListPublicIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Media{}).
		Distinct("public_id").
		Pluck("public_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}
