package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/kennel/pkg/id"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

const (
	OrphanSweepTask     = "sweep_orphan_blobs"
	OrphanSweepSchedule = "0 * * * *"
	// DefaultOrphanGrace keeps blobs of in-flight uploads out of the sweep.
	DefaultOrphanGrace = time.Hour
)

type BlobStore interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	DeleteMany(ctx context.Context, keys []string) error
}

type ImageKeyLister interface {
	ListImageKeys(ctx context.Context) ([]string, error)
}

// OrphanSweep deletes blobs that no image row references once they are
// older than the grace period.
type OrphanSweep struct {
	blobs BlobStore
	keys  ImageKeyLister
	grace time.Duration
	now   func() time.Time
	log   *slog.Logger
}

type SweepOption func(*OrphanSweep)

func WithGrace(d time.Duration) SweepOption {
	return func(s *OrphanSweep) { s.grace = d }
}

func WithSweepClock(now func() time.Time) SweepOption {
	return func(s *OrphanSweep) { s.now = now }
}

func NewOrphanSweep(blobs BlobStore, keys ImageKeyLister, log *slog.Logger, opts ...SweepOption) *OrphanSweep {
	s := &OrphanSweep{blobs: blobs, keys: keys, grace: DefaultOrphanGrace, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrphanSweep) Name() string     { return OrphanSweepTask }
func (s *OrphanSweep) Schedule() string { return OrphanSweepSchedule }

// Handle lists the bucket before the referenced keys, so a blob whose row
// is inserted in between is still seen as referenced or protected by grace.
func (s *OrphanSweep) Handle(ctx context.Context) error {
	objects, err := s.blobs.List(ctx, "")
	if err != nil {
		return fmt.Errorf("tasks: list blobs: %w", err)
	}
	keys, err := s.keys.ListImageKeys(ctx)
	if err != nil {
		return fmt.Errorf("tasks: list image keys: %w", err)
	}

	referenced := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		referenced[k] = struct{}{}
	}

	cutoff := s.now().Add(-s.grace)
	var orphans []string
	for _, o := range objects {
		if _, ok := referenced[o.Key]; ok {
			continue
		}
		if s.uploadedAt(o).After(cutoff) {
			continue
		}
		orphans = append(orphans, o.Key)
	}

	if len(orphans) == 0 {
		return nil
	}
	if err := s.blobs.DeleteMany(ctx, orphans); err != nil {
		return fmt.Errorf("tasks: delete orphans: %w", err)
	}
	s.log.InfoContext(ctx, "orphan blobs deleted",
		slog.Int("count", len(orphans)),
		slog.Int("scanned", len(objects)),
	)
	return nil
}

// uploadedAt prefers the store's modification time. Some S3-compatible
// stores omit it; the object name then carries the upload time. Objects
// with neither are treated as new.
func (s *OrphanSweep) uploadedAt(o storage.Object) time.Time {
	if !o.LastModified.IsZero() {
		return o.LastModified
	}
	if t, ok := id.Time(o.Key); ok {
		return t
	}
	return s.now()
}
