//go:build integration

package storage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/pkg/storage"
)

// Start MinIO with: docker compose up -d minio minio-init
func newTestStorage(t *testing.T) *storage.S3Storage {
	t.Helper()

	s, err := storage.New(storage.Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "kennel",
		PathStyle: true,
	})
	require.NoError(t, err)
	return s
}

func TestS3Integration_PutListDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	prefix := uuid.NewString() + "/"
	data := []byte("not really a jpeg")

	keys := []string{prefix + "a.jpg", prefix + "b.jpg"}
	for _, k := range keys {
		require.NoError(t, s.Put(ctx, k, bytes.NewReader(data), int64(len(data)), "image/jpeg"))
	}

	err := s.Put(ctx, keys[0], bytes.NewReader(data), int64(len(data)), "image/jpeg")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	objects, err := s.List(ctx, prefix)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	require.NoError(t, s.DeleteMany(ctx, keys))

	objects, err = s.List(ctx, prefix)
	require.NoError(t, err)
	require.Empty(t, objects)
}
