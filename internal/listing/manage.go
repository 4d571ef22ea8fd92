package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal/repository"
)

// Get returns the dog with its images in display order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Listing, error) {
	dog, err := s.store.GetDog(ctx, id)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: load dog: %w", err)
	}
	images, err := s.store.ListDogImages(ctx, id)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: load images: %w", err)
	}
	if images == nil {
		images = []repository.DogImage{}
	}
	return Listing{Dog: dog, Images: images}, nil
}

// Update replaces the descriptive fields with the same normalization as Create.
// A blank status keeps the current one. Images and cover are untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (repository.Dog, error) {
	if strings.TrimSpace(in.Status) == "" {
		cur, err := s.store.GetDog(ctx, id)
		if err != nil {
			return repository.Dog{}, fmt.Errorf("listing: load dog: %w", err)
		}
		in.Status = cur.Status
	}
	params, err := in.params()
	if err != nil {
		return repository.Dog{}, err
	}
	dog, err := s.store.UpdateDog(ctx, repository.UpdateDogParams{ID: id, CreateDogParams: params})
	if err != nil {
		return repository.Dog{}, fmt.Errorf("listing: update dog: %w", err)
	}
	return dog, nil
}

// DeleteImage removes the blob, then the row. A blob failure is logged and
// the row is deleted anyway; the orphan sweeper collects the leftover.
// The remaining images are renumbered 0..n-1 in their current order.
// A cover pointing at the image moves to the next image or is cleared.
func (s *Service) DeleteImage(ctx context.Context, dogID, imageID uuid.UUID) error {
	img, err := s.store.GetDogImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("listing: load image: %w", err)
	}
	if img.DogID != dogID {
		return fmt.Errorf("listing: load image: %w", repository.ErrNotFound)
	}
	dog, err := s.store.GetDog(ctx, dogID)
	if err != nil {
		return fmt.Errorf("listing: load dog: %w", err)
	}

	if err := s.blobs.Delete(ctx, img.StorageKey); err != nil {
		s.log.WarnContext(ctx, "image blob not deleted",
			slog.String("dog_id", dogID.String()),
			slog.String("key", img.StorageKey),
			slog.String("error", err.Error()),
		)
	}
	if err := s.store.DeleteDogImage(ctx, imageID); err != nil {
		return fmt.Errorf("listing: delete image: %w", err)
	}

	rest, err := s.store.ListDogImages(ctx, dogID)
	if err != nil {
		return fmt.Errorf("listing: load images: %w", err)
	}
	for i, r := range rest {
		if r.SortOrder == int32(i) {
			continue
		}
		err := s.store.UpdateDogImageSortOrder(ctx, repository.UpdateDogImageSortOrderParams{
			ID:        r.ID,
			DogID:     dogID,
			SortOrder: int32(i),
		})
		if err != nil {
			return fmt.Errorf("listing: renumber image %s: %w", r.ID, err)
		}
	}

	if dog.CoverImageURL == nil || *dog.CoverImageURL != img.URL {
		return nil
	}
	var cover *string
	if len(rest) > 0 {
		cover = &rest[0].URL
	}
	if err := s.store.SetDogCover(ctx, dogID, cover); err != nil {
		return fmt.Errorf("listing: set cover: %w", err)
	}
	return nil
}

// ReorderImages assigns sort_order by position in order, which must list
// every image of the dog exactly once. Rows are updated one at a time; a
// failure part way leaves the earlier updates in place. The first image
// becomes the cover.
func (s *Service) ReorderImages(ctx context.Context, dogID uuid.UUID, order []uuid.UUID) error {
	images, err := s.store.ListDogImages(ctx, dogID)
	if err != nil {
		return fmt.Errorf("listing: load images: %w", err)
	}

	urls := make(map[uuid.UUID]string, len(images))
	for _, img := range images {
		urls[img.ID] = img.URL
	}
	if len(order) != len(images) {
		return &ValidationError{Field: "order", Message: "Order must list every image exactly once"}
	}
	seen := make(map[uuid.UUID]struct{}, len(order))
	for _, id := range order {
		_, known := urls[id]
		_, dup := seen[id]
		if !known || dup {
			return &ValidationError{Field: "order", Message: "Order must list every image exactly once"}
		}
		seen[id] = struct{}{}
	}

	for i, id := range order {
		err := s.store.UpdateDogImageSortOrder(ctx, repository.UpdateDogImageSortOrderParams{
			ID:        id,
			DogID:     dogID,
			SortOrder: int32(i),
		})
		if err != nil {
			return fmt.Errorf("listing: reorder image %s: %w", id, err)
		}
	}

	if len(order) == 0 {
		return nil
	}
	cover := urls[order[0]]
	if err := s.store.SetDogCover(ctx, dogID, &cover); err != nil {
		return fmt.Errorf("listing: set cover: %w", err)
	}
	return nil
}

// Delete removes every blob under the dog's prefix, then the dog row.
// Image rows go with it through the foreign key. If the blobs cannot be
// removed the row is kept so the delete can be retried.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetDog(ctx, id); err != nil {
		return fmt.Errorf("listing: load dog: %w", err)
	}

	objects, err := s.blobs.List(ctx, Prefix(id))
	if err != nil {
		return fmt.Errorf("listing: list blobs: %w", err)
	}
	if len(objects) > 0 {
		keys := make([]string, len(objects))
		for i, o := range objects {
			keys[i] = o.Key
		}
		if err := s.blobs.DeleteMany(ctx, keys); err != nil {
			return fmt.Errorf("listing: delete blobs: %w", err)
		}
	}

	if err := s.store.DeleteDog(ctx, id); err != nil {
		return fmt.Errorf("listing: delete dog: %w", err)
	}
	s.log.InfoContext(ctx, "listing deleted",
		slog.String("dog_id", id.String()),
		slog.Int("blobs", len(objects)),
	)
	return nil
}
