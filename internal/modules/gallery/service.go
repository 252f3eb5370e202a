package gallery

import (
	"context"

	"amphomeus/internal/domain"
	"amphomeus/internal/repository"
)

type JournalLister interface {
	List(ctx context.Context, f repository.JournalFilter) ([]domain.Journal, error)
}

type Service struct {
	journals JournalLister
}

func NewService(journals JournalLister) *Service {
	return &Service{journals: journals}
}

// List returns every journal matching f with media and tags loaded. There is
// no paging.
func (s *Service) List(ctx context.Context, f repository.JournalFilter) ([]domain.Journal, error) {
	out, err := s.journals.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Journal{}
	}
	return out, nil
}
