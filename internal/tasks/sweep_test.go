package tasks_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal/tasks"
	"github.com/dmitrymomot/kennel/pkg/id"
	"github.com/dmitrymomot/kennel/pkg/logger"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

type bucket struct {
	objects   []storage.Object
	deleted   []string
	listErr   error
	deleteErr error
}

func (b *bucket) List(_ context.Context, prefix string) ([]storage.Object, error) {
	return b.objects, b.listErr
}

func (b *bucket) DeleteMany(_ context.Context, keys []string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, keys...)
	return nil
}

type keyList []string

func (k keyList) ListImageKeys(context.Context) ([]string, error) { return k, nil }

func TestOrphanSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("deletes old unreferenced blobs only", func(t *testing.T) {
		t.Parallel()

		b := &bucket{objects: []storage.Object{
			{Key: "d1/kept.jpg", LastModified: now.Add(-48 * time.Hour)},
			{Key: "d1/orphan.jpg", LastModified: now.Add(-2 * time.Hour)},
			{Key: "d2/fresh.jpg", LastModified: now.Add(-10 * time.Minute)},
			{Key: "d3/edge.png", LastModified: now.Add(-time.Hour)},
		}}
		sweep := tasks.NewOrphanSweep(b, keyList{"d1/kept.jpg"}, logger.NewNope(), tasks.WithSweepClock(clock))

		assert.Equal(t, "sweep_orphan_blobs", sweep.Name())
		assert.Equal(t, "0 * * * *", sweep.Schedule())

		require.NoError(t, sweep.Handle(context.Background()))
		slices.Sort(b.deleted)
		assert.Equal(t, []string{"d1/orphan.jpg", "d3/edge.png"}, b.deleted)
	})

	t.Run("missing modification time falls back to the object name", func(t *testing.T) {
		t.Parallel()

		named := "d1/" + id.New() + ".jpg"
		b := &bucket{objects: []storage.Object{
			{Key: named},
			{Key: "d1/unnamed.jpg"},
		}}
		later := func() time.Time { return time.Now().Add(2 * time.Hour) }
		sweep := tasks.NewOrphanSweep(b, keyList{}, logger.NewNope(), tasks.WithSweepClock(later))

		require.NoError(t, sweep.Handle(context.Background()))
		assert.Equal(t, []string{named}, b.deleted)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		t.Parallel()

		b := &bucket{objects: []storage.Object{{Key: "a.jpg", LastModified: now.Add(-48 * time.Hour)}}}
		sweep := tasks.NewOrphanSweep(b, keyList{"a.jpg"}, logger.NewNope(), tasks.WithSweepClock(clock))

		require.NoError(t, sweep.Handle(context.Background()))
		assert.Empty(t, b.deleted)
	})

	t.Run("custom grace", func(t *testing.T) {
		t.Parallel()

		b := &bucket{objects: []storage.Object{{Key: "a.jpg", LastModified: now.Add(-10 * time.Minute)}}}
		sweep := tasks.NewOrphanSweep(b, keyList{}, logger.NewNope(),
			tasks.WithSweepClock(clock), tasks.WithGrace(5*time.Minute))

		require.NoError(t, sweep.Handle(context.Background()))
		assert.Equal(t, []string{"a.jpg"}, b.deleted)
	})

	t.Run("storage errors are returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("bucket unreachable")
		sweep := tasks.NewOrphanSweep(&bucket{listErr: boom}, keyList{}, logger.NewNope())
		require.ErrorIs(t, sweep.Handle(context.Background()), boom)

		b := &bucket{
			objects:   []storage.Object{{Key: "a.jpg", LastModified: now.Add(-48 * time.Hour)}},
			deleteErr: boom,
		}
		sweep = tasks.NewOrphanSweep(b, keyList{}, logger.NewNope(), tasks.WithSweepClock(clock))
		require.ErrorIs(t, sweep.Handle(context.Background()), boom)
	})
}
