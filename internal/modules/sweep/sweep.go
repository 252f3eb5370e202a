package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"amphomeus/internal/pkg/mediastore"
)

// ObjectStore is the part of the media store the sweep needs.
type ObjectStore interface {
	List(ctx context.Context) ([]mediastore.Object, error)
	Delete(ctx context.Context, publicID string) (*mediastore.DeleteResult, error)
}

// References lists every storage key still used by a media row.
type References interface {
	ListPublicIDs(ctx context.Context) ([]string, error)
}

type Options struct {
	GracePeriod time.Duration
	DryRun      bool
}

type Report struct {
	Scanned    int
	Referenced int
	TooRecent  int
	Orphaned   []string
	Deleted    []string
	Failed     []string
}

type Sweeper struct {
	objects ObjectStore
	refs    References
	log     *zap.Logger
	now     func() time.Time
}

func New(objects ObjectStore, refs References, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{objects: objects, refs: refs, log: log, now: time.Now}
}

// Run deletes stored objects that no media row references and that are older
// than the grace period. Objects younger than that may belong to an upload
// whose journal has not been saved yet.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*Report, error) {
	ids, err := s.refs.ListPublicIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list referenced media: %w", err)
	}
	referenced := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		referenced[id] = struct{}{}
	}

	objects, err := s.objects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored objects: %w", err)
	}

	cutoff := s.now().Add(-opts.GracePeriod)
	report := &Report{Scanned: len(objects)}

	for _, o := range objects {
		if _, ok := referenced[o.Key]; ok {
			report.Referenced++
			continue
		}
		if o.LastModified.After(cutoff) {
			report.TooRecent++
			continue
		}
		report.Orphaned = append(report.Orphaned, o.Key)

		if opts.DryRun {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := s.objects.Delete(ctx, o.Key); err != nil {
			s.log.Warn("orphan delete failed", zap.String("public_id", o.Key), zap.Error(err))
			report.Failed = append(report.Failed, o.Key)
			continue
		}
		report.Deleted = append(report.Deleted, o.Key)
	}

	s.log.Info("media sweep finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("referenced", report.Referenced),
		zap.Int("too_recent", report.TooRecent),
		zap.Int("orphaned", len(report.Orphaned)),
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("failed", len(report.Failed)),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}
