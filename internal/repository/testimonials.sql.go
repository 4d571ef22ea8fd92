package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const testimonialColumns = `id, author_name, location, body, rating, status, created_at, reviewed_at`

func scanTestimonial(row pgx.Row) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(&t.ID, &t.AuthorName, &t.Location, &t.Body, &t.Rating, &t.Status, &t.CreatedAt, &t.ReviewedAt)
	return t, wrapErr(err)
}

func collectTestimonials(rows pgx.Rows, err error) ([]Testimonial, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (Testimonial, error) {
		return scanTestimonial(r)
	})
}

type CreateTestimonialParams struct {
	AuthorName string
	Location   string
	Body       string
	Rating     int16
}

const createTestimonial = `INSERT INTO testimonials (author_name, location, body, rating)
VALUES ($1, $2, $3, $4)
RETURNING ` + testimonialColumns

// CreateTestimonial stores a submission as pending.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRow(ctx, createTestimonial,
		arg.AuthorName, arg.Location, arg.Body, arg.Rating,
	))
}

const listApprovedTestimonials = `SELECT ` + testimonialColumns + ` FROM testimonials
WHERE status = 'approved'
ORDER BY created_at DESC
LIMIT $1`

func (q *Queries) ListApprovedTestimonials(ctx context.Context, limit int32) ([]Testimonial, error) {
	return collectTestimonials(q.db.Query(ctx, listApprovedTestimonials, limit))
}

const listTestimonials = `SELECT ` + testimonialColumns + ` FROM testimonials
WHERE $1::text = '' OR status = $1
ORDER BY created_at DESC`

// ListTestimonials filters by status; an empty status returns all.
func (q *Queries) ListTestimonials(ctx context.Context, status string) ([]Testimonial, error) {
	return collectTestimonials(q.db.Query(ctx, listTestimonials, status))
}

const setTestimonialStatus = `UPDATE testimonials SET status = $2, reviewed_at = now()
WHERE id = $1
RETURNING ` + testimonialColumns

func (q *Queries) SetTestimonialStatus(ctx context.Context, id uuid.UUID, status string) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRow(ctx, setTestimonialStatus, id, status))
}

const deleteTestimonial = `DELETE FROM testimonials WHERE id = $1`

func (q *Queries) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return q.execOne(ctx, deleteTestimonial, id)
}
