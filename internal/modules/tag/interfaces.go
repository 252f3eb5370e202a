package tag

import (
	"context"

	"amphomeus/internal/domain"
)

// Finder resolves a tag name to its row, creating the row when missing.
type Finder interface {
	FindOrCreate(ctx context.Context, name string) (*domain.Tag, error)
}

type Repository interface {
	Finder
	List(ctx context.Context) ([]domain.Tag, error)
}
