package tasks_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/internal/tasks"
	"github.com/dmitrymomot/kennel/pkg/logger"
	"github.com/dmitrymomot/kennel/pkg/mailer"
)

type recordingSender struct {
	mu     sync.Mutex
	emails []*mailer.Email
	err    error
}

func (s *recordingSender) Send(_ context.Context, email *mailer.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.emails = append(s.emails, email)
	return nil
}

type reservations map[uuid.UUID]repository.Reservation

func (r reservations) GetReservation(_ context.Context, id uuid.UUID) (repository.Reservation, error) {
	res, ok := r[id]
	if !ok {
		return repository.Reservation{}, repository.ErrNotFound
	}
	return res, nil
}

func newNotice(t *testing.T, adminEmail string) (*tasks.ReservationNotice, *recordingSender, repository.Reservation) {
	t.Helper()

	res := repository.Reservation{
		ID:            uuid.New(),
		DogName:       "Milo",
		CustomerName:  "Ann",
		CustomerEmail: "ann@example.com",
		CustomerPhone: "555-0100",
		Message:       "Can we visit on Saturday?",
		DepositCents:  25000,
		Status:        repository.ReservationPending,
	}
	sender := &recordingSender{}
	m := mailer.New(sender, mailer.NewRenderer(tasks.Templates()))
	notice := tasks.NewReservationNotice(m, reservations{res.ID: res}, adminEmail, "https://kennel.test/", logger.NewNope())
	return notice, sender, res
}

func TestReservationNotice(t *testing.T) {
	t.Parallel()

	t.Run("emails customer and admin", func(t *testing.T) {
		t.Parallel()
		notice, sender, res := newNotice(t, "owner@kennel.test")

		require.Equal(t, reservation.NoticeTask, notice.Name())
		require.NoError(t, notice.Handle(context.Background(), reservation.NoticePayload{ID: res.ID}))
		require.Len(t, sender.emails, 2)

		customer := sender.emails[0]
		assert.Equal(t, []string{"ann@example.com"}, customer.To)
		assert.Equal(t, "owner@kennel.test", customer.ReplyTo)
		assert.Equal(t, "Your reservation for Milo", customer.Subject)
		assert.Contains(t, customer.HTML, "<strong>Milo</strong>")
		assert.Contains(t, customer.HTML, "$250.00")
		assert.Contains(t, customer.HTML, res.ID.String())
		assert.Contains(t, customer.HTML, "<!doctype html>")

		admin := sender.emails[1]
		assert.Equal(t, []string{"owner@kennel.test"}, admin.To)
		assert.Equal(t, "ann@example.com", admin.ReplyTo)
		assert.Equal(t, "New reservation: Milo (Ann)", admin.Subject)
		assert.Contains(t, admin.Text, "Phone: 555-0100")
		assert.Contains(t, admin.Text, "Can we visit on Saturday?")
		assert.Contains(t, admin.HTML, `href="https://kennel.test/admin/reservations"`)
	})

	t.Run("no admin address sends only the confirmation", func(t *testing.T) {
		t.Parallel()
		notice, sender, res := newNotice(t, "")

		require.NoError(t, notice.Handle(context.Background(), reservation.NoticePayload{ID: res.ID}))
		require.Len(t, sender.emails, 1)
	})

	t.Run("missing reservation is skipped", func(t *testing.T) {
		t.Parallel()
		notice, sender, _ := newNotice(t, "owner@kennel.test")

		require.NoError(t, notice.Handle(context.Background(), reservation.NoticePayload{ID: uuid.New()}))
		assert.Empty(t, sender.emails)
	})

	t.Run("send failure is returned for retry", func(t *testing.T) {
		t.Parallel()
		notice, sender, res := newNotice(t, "owner@kennel.test")
		sender.err = errors.New("provider down")

		err := notice.Handle(context.Background(), reservation.NoticePayload{ID: res.ID})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
	})
}

func TestFormatCents(t *testing.T) {
	t.Parallel()

	tests := map[int32]string{
		0:        "$0.00",
		5:        "$0.05",
		25000:    "$250.00",
		125099:   "$1,250.99",
		-1500:    "-$15.00",
		10000000: "$100,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, tasks.FormatCents(in), "cents %d", in)
	}
}
