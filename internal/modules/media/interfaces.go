package media

import (
	"context"

	"amphomeus/internal/pkg/mediastore"
)

// Store is the external media store the handlers proxy to.
type Store interface {
	Upload(ctx context.Context, f mediastore.File) (*mediastore.UploadResult, error)
	Delete(ctx context.Context, publicID string) (*mediastore.DeleteResult, error)
	MaxUploadBytes() int64
}
