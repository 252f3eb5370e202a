package repository

import (
	"context"
	"time"

	"amphomeus/internal/domain"

	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// JournalFields are the scalar columns an update rewrites.
type JournalFields struct {
	Title    string
	Content  *string
	Location *string
	Date     *time.Time
}

// Create inserts the journal together with its media rows and links the
// already reconciled tags through journal_tags.
func (r *JournalRepository) Create(ctx context.Context, j *domain.Journal) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Tags").Create(j).Error; err != nil {
		return translate(err)
	}

	return r.linkTags(ctx, j.ID, tagIDs(j.Tags))
}

func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.Journal, error) {
	var j domain.Journal
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("journals.id = ?", id).
		First(&j).Error
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

// Exists reports whether a journal row with id is present.
func (r *JournalRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Journal{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *JournalRepository) UpdateFields(ctx context.Context, id string, f JournalFields) error {
	updates := map[string]interface{}{
		"title":    f.Title,
		"content":  f.Content,
		"location": f.Location,
	}
	if f.Date != nil {
		updates["date"] = f.Date.UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Journal{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceTags drops every association of the journal and links tagIDs
// instead. Tag rows themselves are never removed.
func (r *JournalRepository) ReplaceTags(ctx context.Context, journalID string, tagIDs []string) error {
	err := r.db.WithContext(ctx).
		Where("journal_id = ?", journalID).
		Delete(&domain.JournalTag{}).Error
	if err != nil {
		return translate(err)
	}
	return r.linkTags(ctx, journalID, tagIDs)
}

// Delete removes the journal, its media rows and its tag links.
func (r *JournalRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("journal_id = ?", id).Delete(&domain.Media{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("journal_id = ?", id).Delete(&domain.JournalTag{}).Error; err != nil {
		return translate(err)
	}

	res := db.Where("id = ?", id).Delete(&domain.Journal{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JournalRepository) List(ctx context.Context, f JournalFilter) ([]domain.Journal, error) {
	var out []domain.Journal

	q := r.withRelations(r.db.WithContext(ctx).Model(&domain.Journal{}))
	if err := f.apply(q).Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *JournalRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("media.created_at ASC").Order("media.id ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

func (r *JournalRepository) linkTags(ctx context.Context, journalID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	links := make([]domain.JournalTag, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, domain.JournalTag{JournalID: journalID, TagID: id})
	}

	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return translate(err)
	}
	return nil
}

func tagIDs(tags []domain.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
