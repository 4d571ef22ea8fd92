package listing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal/repository"
)

// written tracks what a write has persisted so far.
type written struct {
	keys   []string
	images []uuid.UUID
}

// Create inserts a dog, uploads files in order and points the cover at the
// first image. On failure every partial write is undone and the error is a
// *RollbackError; validation and dog insert failures leave nothing behind
// and are returned as is.
func (s *Service) Create(ctx context.Context, in Input, files []File) (Listing, error) {
	params, err := in.params()
	if err != nil {
		return Listing{}, err
	}

	dog, err := s.store.CreateDog(ctx, params)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: insert dog: %w", err)
	}

	var w written
	images, err := s.putImages(ctx, dog.ID, 0, in.Alt, files, &w)
	if err != nil {
		return Listing{}, s.rollbackCreate(ctx, dog.ID, w, err)
	}

	if len(images) > 0 {
		cover := images[0].URL
		if err := s.store.SetDogCover(ctx, dog.ID, &cover); err != nil {
			return Listing{}, s.rollbackCreate(ctx, dog.ID, w, fmt.Errorf("listing: set cover: %w", err))
		}
		dog.CoverImageURL = &cover
	}

	s.log.InfoContext(ctx, "listing created",
		slog.String("dog_id", dog.ID.String()),
		slog.String("slug", dog.Slug),
		slog.Int("images", len(images)),
	)
	return Listing{Dog: dog, Images: images}, nil
}

// AddImages appends files to an existing listing after its current last
// image. Only the blobs and rows written by this call are undone on failure.
func (s *Service) AddImages(ctx context.Context, dogID uuid.UUID, alt string, files []File) (Listing, error) {
	if len(files) == 0 {
		return Listing{}, &ValidationError{Field: "images", Message: "At least one image is required"}
	}

	dog, err := s.store.GetDog(ctx, dogID)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: load dog: %w", err)
	}
	last, err := s.store.MaxDogImageSortOrder(ctx, dogID)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: load sort order: %w", err)
	}

	var w written
	images, err := s.putImages(ctx, dogID, last+1, alt, files, &w)
	if err != nil {
		return Listing{}, s.rollbackAdd(ctx, dogID, w, err)
	}

	if dog.CoverImageURL == nil {
		cover := images[0].URL
		if err := s.store.SetDogCover(ctx, dogID, &cover); err != nil {
			return Listing{}, s.rollbackAdd(ctx, dogID, w, fmt.Errorf("listing: set cover: %w", err))
		}
	}

	return s.Get(ctx, dogID)
}

// putImages uploads and records files one by one, stopping at the first
// failure. Every persisted key and row is recorded in w before the next
// step runs.
func (s *Service) putImages(ctx context.Context, dogID uuid.UUID, start int32, alt string, files []File, w *written) ([]repository.DogImage, error) {
	images := make([]repository.DogImage, 0, len(files))
	for i, f := range files {
		key := s.objectKey(dogID, f.ContentType)
		if err := s.blobs.Put(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
			return images, fmt.Errorf("listing: upload image %d: %w", i, err)
		}
		w.keys = append(w.keys, key)

		img, err := s.store.CreateDogImage(ctx, repository.CreateDogImageParams{
			DogID:      dogID,
			URL:        s.blobs.PublicURL(key),
			StorageKey: key,
			Alt:        altText(f.Alt, alt),
			SortOrder:  start + int32(i),
		})
		if err != nil {
			return images, fmt.Errorf("listing: insert image %d: %w", i, err)
		}
		w.images = append(w.images, img.ID)
		images = append(images, img)
	}
	return images, nil
}

func altText(own, shared string) *string {
	if own != "" {
		return &own
	}
	if shared != "" {
		return &shared
	}
	return nil
}

// rollbackCreate removes uploaded blobs, the dog's image rows and the dog.
func (s *Service) rollbackCreate(ctx context.Context, dogID uuid.UUID, w written, cause error) error {
	ctx = context.WithoutCancel(ctx)

	var cleanup []error
	if len(w.keys) > 0 {
		if err := s.blobs.DeleteMany(ctx, w.keys); err != nil {
			cleanup = append(cleanup, fmt.Errorf("delete blobs: %w", err))
		}
	}
	if err := s.store.DeleteDogImagesByDog(ctx, dogID); err != nil {
		cleanup = append(cleanup, fmt.Errorf("delete image rows: %w", err))
	}
	if err := s.store.DeleteDog(ctx, dogID); err != nil {
		cleanup = append(cleanup, fmt.Errorf("delete dog: %w", err))
	}

	return s.rolledBack(ctx, dogID, cause, cleanup)
}

// rollbackAdd removes only what AddImages wrote.
func (s *Service) rollbackAdd(ctx context.Context, dogID uuid.UUID, w written, cause error) error {
	ctx = context.WithoutCancel(ctx)

	var cleanup []error
	if len(w.keys) > 0 {
		if err := s.blobs.DeleteMany(ctx, w.keys); err != nil {
			cleanup = append(cleanup, fmt.Errorf("delete blobs: %w", err))
		}
	}
	for _, id := range w.images {
		if err := s.store.DeleteDogImage(ctx, id); err != nil {
			cleanup = append(cleanup, fmt.Errorf("delete image row %s: %w", id, err))
		}
	}

	return s.rolledBack(ctx, dogID, cause, cleanup)
}

func (s *Service) rolledBack(ctx context.Context, dogID uuid.UUID, cause error, cleanup []error) error {
	s.log.WarnContext(ctx, "listing write rolled back",
		slog.String("dog_id", dogID.String()),
		slog.String("error", cause.Error()),
	)
	for _, err := range cleanup {
		s.log.ErrorContext(ctx, "listing rollback step failed",
			slog.String("dog_id", dogID.String()),
			slog.String("error", err.Error()),
		)
	}
	return &RollbackError{Err: cause, Cleanup: cleanup}
}
