package repository

import (
	"context"

	"amphomeus/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate returns the tag named name, inserting it first when missing.
// The insert is a no-op on conflict so two concurrent callers both end up
// with the same row.
func (r *TagRepository) FindOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	db := r.db.WithContext(ctx)

	candidate := domain.Tag{Name: name}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, translate(err)
	}

	var tag domain.Tag
	if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *TagRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Tag{}).Count(&n).Error
	return n, translate(err)
}
