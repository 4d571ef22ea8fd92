package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dogColumns = `id, name, slug, breed, sex, color, age_weeks, weight_lbs,
	price_cents, deposit_cents, status, description, cover_image_url,
	created_at, updated_at`

func scanDog(row pgx.Row) (Dog, error) {
	var d Dog
	err := row.Scan(
		&d.ID, &d.Name, &d.Slug, &d.Breed, &d.Sex, &d.Color, &d.AgeWeeks, &d.WeightLbs,
		&d.PriceCents, &d.DepositCents, &d.Status, &d.Description, &d.CoverImageURL,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, wrapErr(err)
}

func collectDogs(rows pgx.Rows, err error) ([]Dog, error) {
	if err != nil {
		return nil, err
	}
	dogs, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (Dog, error) {
		return scanDog(r)
	})
	if err != nil {
		return nil, err
	}
	return dogs, nil
}

type CreateDogParams struct {
	Name         string
	Slug         string
	Breed        string
	Sex          string
	Color        string
	AgeWeeks     *int32
	WeightLbs    *int32
	PriceCents   *int32
	DepositCents *int32
	Status       string
	Description  string
}

const createDog = `INSERT INTO dogs (
	name, slug, breed, sex, color, age_weeks, weight_lbs,
	price_cents, deposit_cents, status, description
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + dogColumns

func (q *Queries) CreateDog(ctx context.Context, arg CreateDogParams) (Dog, error) {
	return scanDog(q.db.QueryRow(ctx, createDog,
		arg.Name, arg.Slug, arg.Breed, arg.Sex, arg.Color, arg.AgeWeeks, arg.WeightLbs,
		arg.PriceCents, arg.DepositCents, arg.Status, arg.Description,
	))
}

type UpdateDogParams struct {
	ID uuid.UUID
	CreateDogParams
}

const updateDog = `UPDATE dogs SET
	name = $2, slug = $3, breed = $4, sex = $5, color = $6, age_weeks = $7,
	weight_lbs = $8, price_cents = $9, deposit_cents = $10, status = $11,
	description = $12, updated_at = now()
WHERE id = $1
RETURNING ` + dogColumns

func (q *Queries) UpdateDog(ctx context.Context, arg UpdateDogParams) (Dog, error) {
	return scanDog(q.db.QueryRow(ctx, updateDog,
		arg.ID, arg.Name, arg.Slug, arg.Breed, arg.Sex, arg.Color, arg.AgeWeeks,
		arg.WeightLbs, arg.PriceCents, arg.DepositCents, arg.Status, arg.Description,
	))
}

const getDog = `SELECT ` + dogColumns + ` FROM dogs WHERE id = $1`

func (q *Queries) GetDog(ctx context.Context, id uuid.UUID) (Dog, error) {
	return scanDog(q.db.QueryRow(ctx, getDog, id))
}

const getDogForUpdate = getDog + ` FOR UPDATE`

// GetDogForUpdate locks the row until the surrounding transaction ends.
func (q *Queries) GetDogForUpdate(ctx context.Context, id uuid.UUID) (Dog, error) {
	return scanDog(q.db.QueryRow(ctx, getDogForUpdate, id))
}

const getPublicDogBySlug = `SELECT ` + dogColumns + ` FROM dogs
WHERE slug = $1 AND status <> 'hidden'`

func (q *Queries) GetPublicDogBySlug(ctx context.Context, slug string) (Dog, error) {
	return scanDog(q.db.QueryRow(ctx, getPublicDogBySlug, slug))
}

const listDogs = `SELECT ` + dogColumns + ` FROM dogs ORDER BY created_at DESC`

func (q *Queries) ListDogs(ctx context.Context) ([]Dog, error) {
	return collectDogs(q.db.Query(ctx, listDogs))
}

const listPublicDogs = `SELECT ` + dogColumns + ` FROM dogs
WHERE status IN ('available', 'reserved')
ORDER BY status, created_at DESC`

// ListPublicDogs returns available dogs first, then reserved ones.
func (q *Queries) ListPublicDogs(ctx context.Context) ([]Dog, error) {
	return collectDogs(q.db.Query(ctx, listPublicDogs))
}

const setDogCover = `UPDATE dogs SET cover_image_url = $2, updated_at = now() WHERE id = $1`

// SetDogCover sets or, with a nil url, clears the cover image.
func (q *Queries) SetDogCover(ctx context.Context, id uuid.UUID, url *string) error {
	return q.execOne(ctx, setDogCover, id, url)
}

const setDogStatus = `UPDATE dogs SET status = $2, updated_at = now() WHERE id = $1`

func (q *Queries) SetDogStatus(ctx context.Context, id uuid.UUID, status string) error {
	return q.execOne(ctx, setDogStatus, id, status)
}

const deleteDog = `DELETE FROM dogs WHERE id = $1`

// DeleteDog removes the dog; its dog_images rows cascade.
func (q *Queries) DeleteDog(ctx context.Context, id uuid.UUID) error {
	return q.execOne(ctx, deleteDog, id)
}
