package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const imageColumns = `id, dog_id, url, storage_key, alt, sort_order, created_at`

func scanImage(row pgx.Row) (DogImage, error) {
	var i DogImage
	err := row.Scan(&i.ID, &i.DogID, &i.URL, &i.StorageKey, &i.Alt, &i.SortOrder, &i.CreatedAt)
	return i, wrapErr(err)
}

type CreateDogImageParams struct {
	DogID      uuid.UUID
	URL        string
	StorageKey string
	Alt        *string
	SortOrder  int32
}

const createDogImage = `INSERT INTO dog_images (dog_id, url, storage_key, alt, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + imageColumns

func (q *Queries) CreateDogImage(ctx context.Context, arg CreateDogImageParams) (DogImage, error) {
	return scanImage(q.db.QueryRow(ctx, createDogImage,
		arg.DogID, arg.URL, arg.StorageKey, arg.Alt, arg.SortOrder,
	))
}

const getDogImage = `SELECT ` + imageColumns + ` FROM dog_images WHERE id = $1`

func (q *Queries) GetDogImage(ctx context.Context, id uuid.UUID) (DogImage, error) {
	return scanImage(q.db.QueryRow(ctx, getDogImage, id))
}

const listDogImages = `SELECT ` + imageColumns + ` FROM dog_images
WHERE dog_id = $1
ORDER BY sort_order, created_at`

func (q *Queries) ListDogImages(ctx context.Context, dogID uuid.UUID) ([]DogImage, error) {
	rows, err := q.db.Query(ctx, listDogImages, dogID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (DogImage, error) {
		return scanImage(r)
	})
}

const listImagesForDogs = `SELECT ` + imageColumns + ` FROM dog_images
WHERE dog_id = ANY($1)
ORDER BY dog_id, sort_order, created_at`

// ListImagesForDogs returns the images of several dogs in one round trip.
func (q *Queries) ListImagesForDogs(ctx context.Context, dogIDs []uuid.UUID) ([]DogImage, error) {
	rows, err := q.db.Query(ctx, listImagesForDogs, dogIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (DogImage, error) {
		return scanImage(r)
	})
}

const maxDogImageSortOrder = `SELECT COALESCE(MAX(sort_order), -1)::integer FROM dog_images WHERE dog_id = $1`

// MaxDogImageSortOrder returns -1 for a dog without images.
func (q *Queries) MaxDogImageSortOrder(ctx context.Context, dogID uuid.UUID) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, maxDogImageSortOrder, dogID).Scan(&n)
	return n, wrapErr(err)
}

type UpdateDogImageSortOrderParams struct {
	ID        uuid.UUID
	DogID     uuid.UUID
	SortOrder int32
}

const updateDogImageSortOrder = `UPDATE dog_images SET sort_order = $3 WHERE id = $1 AND dog_id = $2`

func (q *Queries) UpdateDogImageSortOrder(ctx context.Context, arg UpdateDogImageSortOrderParams) error {
	return q.execOne(ctx, updateDogImageSortOrder, arg.ID, arg.DogID, arg.SortOrder)
}

const deleteDogImage = `DELETE FROM dog_images WHERE id = $1`

func (q *Queries) DeleteDogImage(ctx context.Context, id uuid.UUID) error {
	return q.execOne(ctx, deleteDogImage, id)
}

const deleteDogImagesByDog = `DELETE FROM dog_images WHERE dog_id = $1`

// DeleteDogImagesByDog succeeds when the dog has no images.
func (q *Queries) DeleteDogImagesByDog(ctx context.Context, dogID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteDogImagesByDog, dogID)
	return wrapErr(err)
}

const listImageKeys = `SELECT storage_key FROM dog_images`

// ListImageKeys returns every referenced storage key.
func (q *Queries) ListImageKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listImageKeys)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
