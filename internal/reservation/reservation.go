// Package reservation runs the deposit workflow: a customer reserves an
// available dog, the admin marks the deposit paid (holding the dog) or
// cancels (releasing it). Every step locks the rows it reads.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/pkg/db"
	"github.com/dmitrymomot/kennel/pkg/job"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

// NoticeTask is the job enqueued after a reservation is created.
const NoticeTask = "send_reservation_notice"

// NoticePayload identifies the reservation to announce.
type NoticePayload struct {
	ID uuid.UUID `json:"id"`
}

var (
	ErrDogUnavailable = errors.New("reservation: dog is not available")
	ErrNoDeposit      = errors.New("reservation: dog has no deposit amount")
	ErrInvalidState   = errors.New("reservation: not allowed in current state")
)

// Input is a customer's reservation request.
type Input struct {
	DogID         uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Message       string
}

type Service struct {
	pool *pgxpool.Pool
	q    *repository.Queries
	jobs job.Enqueuer
	log  *slog.Logger
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithEnqueuer enables the customer and admin notice emails.
func WithEnqueuer(e job.Enqueuer) Option {
	return func(s *Service) { s.jobs = e }
}

func NewService(pool *pgxpool.Pool, opts ...Option) *Service {
	s := &Service{pool: pool, q: repository.New(pool), log: logger.NewNope()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create reserves an available dog at its deposit amount. The dog row is
// locked so two customers cannot both reserve it. The dog stays available
// until the deposit is marked paid.
func (s *Service) Create(ctx context.Context, in Input) (repository.Reservation, error) {
	var res repository.Reservation
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)

		dog, err := q.GetDogForUpdate(ctx, in.DogID)
		if err != nil {
			return err
		}
		if dog.Status != repository.DogAvailable {
			return ErrDogUnavailable
		}
		if dog.DepositCents == nil || *dog.DepositCents <= 0 {
			return ErrNoDeposit
		}

		res, err = q.CreateReservation(ctx, repository.CreateReservationParams{
			DogID:         dog.ID,
			DogName:       dog.Name,
			CustomerName:  in.CustomerName,
			CustomerEmail: strings.ToLower(in.CustomerEmail),
			CustomerPhone: in.CustomerPhone,
			Message:       in.Message,
			DepositCents:  *dog.DepositCents,
		})
		return err
	})
	if err != nil {
		return repository.Reservation{}, fmt.Errorf("reservation: create: %w", err)
	}

	s.log.InfoContext(ctx, "reservation created",
		slog.String("reservation_id", res.ID.String()),
		slog.String("dog_id", in.DogID.String()),
	)
	if s.jobs != nil {
		if err := s.jobs.Enqueue(ctx, NoticeTask, NoticePayload{ID: res.ID}, job.MaxAttempts(5)); err != nil {
			s.log.ErrorContext(ctx, "reservation notice not enqueued",
				slog.String("reservation_id", res.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, nil
}

// MarkPaid records the deposit of a pending reservation and holds the dog.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (repository.Reservation, error) {
	var res repository.Reservation
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)

		cur, err := q.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status != repository.ReservationPending {
			return ErrInvalidState
		}
		if res, err = q.MarkReservationPaid(ctx, id); err != nil {
			return err
		}
		if res.DogID == nil {
			return nil
		}

		dog, err := q.GetDogForUpdate(ctx, *res.DogID)
		if err != nil {
			return err
		}
		if dog.Status != repository.DogAvailable {
			return ErrDogUnavailable
		}
		return q.SetDogStatus(ctx, dog.ID, repository.DogReserved)
	})
	if err != nil {
		return repository.Reservation{}, fmt.Errorf("reservation: mark paid: %w", err)
	}
	return res, nil
}

// Cancel cancels a pending or paid reservation. A paid reservation
// releases the dog it was holding back to available.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (repository.Reservation, error) {
	var res repository.Reservation
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)

		cur, err := q.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == repository.ReservationCancelled {
			return ErrInvalidState
		}
		if res, err = q.CancelReservation(ctx, id); err != nil {
			return err
		}
		if cur.Status != repository.ReservationPaid || cur.DogID == nil {
			return nil
		}

		dog, err := q.GetDogForUpdate(ctx, *cur.DogID)
		if err != nil {
			return err
		}
		if dog.Status == repository.DogReserved {
			return q.SetDogStatus(ctx, dog.ID, repository.DogAvailable)
		}
		return nil
	})
	if err != nil {
		return repository.Reservation{}, fmt.Errorf("reservation: cancel: %w", err)
	}
	return res, nil
}

func (s *Service) List(ctx context.Context) ([]repository.Reservation, error) {
	return s.q.ListReservations(ctx)
}
