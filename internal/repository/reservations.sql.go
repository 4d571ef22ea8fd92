package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `id, dog_id, dog_name, customer_name, customer_email, customer_phone,
	message, deposit_cents, status, created_at, paid_at`

func scanReservation(row pgx.Row) (Reservation, error) {
	var r Reservation
	err := row.Scan(
		&r.ID, &r.DogID, &r.DogName, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.Message, &r.DepositCents, &r.Status, &r.CreatedAt, &r.PaidAt,
	)
	return r, wrapErr(err)
}

type CreateReservationParams struct {
	DogID         uuid.UUID
	DogName       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Message       string
	DepositCents  int32
}

const createReservation = `INSERT INTO reservations (
	dog_id, dog_name, customer_name, customer_email, customer_phone, message, deposit_cents
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + reservationColumns

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, createReservation,
		arg.DogID, arg.DogName, arg.CustomerName, arg.CustomerEmail, arg.CustomerPhone,
		arg.Message, arg.DepositCents,
	))
}

const getReservation = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

func (q *Queries) GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, getReservation, id))
}

const getReservationForUpdate = getReservation + ` FOR UPDATE`

func (q *Queries) GetReservationForUpdate(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, getReservationForUpdate, id))
}

const listReservations = `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`

func (q *Queries) ListReservations(ctx context.Context) ([]Reservation, error) {
	rows, err := q.db.Query(ctx, listReservations)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (Reservation, error) {
		return scanReservation(r)
	})
}

const markReservationPaid = `UPDATE reservations SET status = 'paid', paid_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING ` + reservationColumns

// MarkReservationPaid only moves a pending reservation; any other state
// reports ErrNotFound.
func (q *Queries) MarkReservationPaid(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, markReservationPaid, id))
}

const cancelReservation = `UPDATE reservations SET status = 'cancelled'
WHERE id = $1 AND status <> 'cancelled'
RETURNING ` + reservationColumns

// CancelReservation cancels a pending or paid reservation; an already
// cancelled one reports ErrNotFound.
func (q *Queries) CancelReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, cancelReservation, id))
}
