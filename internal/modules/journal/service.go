package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"amphomeus/internal/domain"
	"amphomeus/internal/modules/tag"
	"amphomeus/internal/pkg/utils"
	"amphomeus/internal/pkg/validator"
	"amphomeus/internal/repository"
)

type Service struct {
	store  *repository.Store
	media  MediaDeleter
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewService wires the aggregate service. media and events may be nil, in
// which case asset deletion and change notifications are skipped.
func NewService(store *repository.Store, media MediaDeleter, events EventPublisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		media:  media,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Journal, error) {
	j, err := s.store.Journals.GetByID(ctx, id)
	if err != nil {
		return nil, s.classify(err)
	}
	return j, nil
}

// Create stores the journal with its media and tags in one transaction and
// returns it fully loaded.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Journal, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	j := &domain.Journal{
		Title:    in.Title,
		Content:  utils.NilIfBlank(in.Content),
		Location: utils.NilIfBlank(in.Location),
		Date:     date,
		Media:    make([]domain.Media, 0, len(in.Media)),
	}
	for _, m := range in.Media {
		j.Media = append(j.Media, m.toDomain())
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		tags, err := tag.Reconcile(ctx, tx.Tags, in.Tags)
		if err != nil {
			return err
		}
		j.Tags = tags
		return tx.Journals.Create(ctx, j)
	})
	if err != nil {
		s.log.Error("create journal failed", zap.Error(err))
		return nil, s.classify(err)
	}

	created, err := s.store.Journals.GetByID(ctx, j.ID)
	if err != nil {
		return nil, s.classify(err)
	}

	s.publish(EventCreated, created.ID, created)
	return created, nil
}

// Update applies the desired state in `in` to journal id. Media removals run
// first and their store deletions are best effort; the scalar fields, new
// media and the tag set are then written in one transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Journal, error) {
	exists, err := s.store.Journals.Exists(ctx, id)
	if err != nil {
		return nil, s.classify(err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	removed, err := s.store.Media.DeleteForJournal(ctx, id, in.MediaToDelete)
	if err != nil {
		s.log.Error("delete journal media failed", zap.String("journal_id", id), zap.Error(err))
		return nil, s.classify(err)
	}
	s.deleteAssets(ctx, id, removed)

	newMedia := make([]domain.Media, 0, len(in.Media))
	for _, m := range in.NewMedia() {
		newMedia = append(newMedia, m.toDomain())
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		tags, err := tag.Reconcile(ctx, tx.Tags, in.Tags)
		if err != nil {
			return err
		}

		err = tx.Journals.UpdateFields(ctx, id, repository.JournalFields{
			Title:    in.Title,
			Content:  utils.NilIfBlank(in.Content),
			Location: utils.NilIfBlank(in.Location),
			Date:     in.Date,
		})
		if err != nil {
			return err
		}

		if err := tx.Media.CreateMany(ctx, id, newMedia); err != nil {
			return err
		}

		ids := make([]string, 0, len(tags))
		for _, t := range tags {
			ids = append(ids, t.ID)
		}
		return tx.Journals.ReplaceTags(ctx, id, ids)
	})
	if err != nil {
		s.log.Error("update journal failed", zap.String("journal_id", id), zap.Error(err))
		return nil, s.classify(err)
	}

	updated, err := s.store.Journals.GetByID(ctx, id)
	if err != nil {
		return nil, s.classify(err)
	}

	s.publish(EventUpdated, id, updated)
	return updated, nil
}

// Delete removes the journal and its media rows. Store deletions are
// attempted first and never block the database delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	j, err := s.store.Journals.GetByID(ctx, id)
	if err != nil {
		return s.classify(err)
	}

	s.deleteAssets(ctx, id, j.Media)

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Journals.Delete(ctx, id)
	})
	if err != nil {
		s.log.Error("delete journal failed", zap.String("journal_id", id), zap.Error(err))
		return s.classify(err)
	}

	s.publish(EventDeleted, id, nil)
	return nil
}

func (s *Service) deleteAssets(ctx context.Context, journalID string, media []domain.Media) {
	if s.media == nil {
		return
	}
	for _, m := range media {
		if m.PublicID == "" {
			continue
		}
		if _, err := s.media.Delete(ctx, m.PublicID); err != nil {
			s.log.Warn("media store delete failed, asset left orphaned",
				zap.String("journal_id", journalID),
				zap.String("public_id", m.PublicID),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) publish(eventType, id string, j *domain.Journal) {
	if s.events != nil {
		s.events.PublishJournal(eventType, id, j)
	}
}

func (s *Service) classify(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, tag.ErrReconciliationFailed), errors.Is(err, ErrValidation):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}

func validate(in any) error {
	fields := validator.Validate(in)
	if len(fields) == 0 {
		return nil
	}

	msg := "Invalid media input"
	if _, ok := fields["title"]; ok {
		msg = "Title is required"
	}
	return &ValidationError{Message: msg, Fields: fields}
}
