package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/pkg/mailer"
)

// Template names under Templates().
const (
	CustomerNoticeTemplate = "reservation_customer.md"
	AdminNoticeTemplate    = "reservation_admin.md"
)

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type ReservationReader interface {
	GetReservation(ctx context.Context, id uuid.UUID) (repository.Reservation, error)
}

// ReservationNotice sends the customer confirmation and the admin alert.
type ReservationNotice struct {
	mail       Mailer
	store      ReservationReader
	adminEmail string
	baseURL    string
	log        *slog.Logger
}

func NewReservationNotice(mail Mailer, store ReservationReader, adminEmail, baseURL string, log *slog.Logger) *ReservationNotice {
	return &ReservationNotice{
		mail:       mail,
		store:      store,
		adminEmail: adminEmail,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

func (t *ReservationNotice) Name() string { return reservation.NoticeTask }

// noticeData is the template data of both notices.
type noticeData struct {
	ID            string
	DogName       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Message       string
	Deposit       string
	AdminURL      string
}

// Handle skips reservations deleted before the job ran. A failed send is
// returned so river retries the job.
func (t *ReservationNotice) Handle(ctx context.Context, p reservation.NoticePayload) error {
	res, err := t.store.GetReservation(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		t.log.WarnContext(ctx, "reservation notice skipped: reservation gone", slog.String("reservation_id", p.ID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("tasks: load reservation: %w", err)
	}

	data := noticeData{
		ID:            res.ID.String(),
		DogName:       res.DogName,
		CustomerName:  res.CustomerName,
		CustomerEmail: res.CustomerEmail,
		CustomerPhone: res.CustomerPhone,
		Message:       res.Message,
		Deposit:       FormatCents(res.DepositCents),
		AdminURL:      t.baseURL + "/admin/reservations",
	}

	if err := t.mail.Send(ctx, mailer.Message{
		To:       res.CustomerEmail,
		ReplyTo:  t.adminEmail,
		Template: CustomerNoticeTemplate,
		Data:     data,
	}); err != nil {
		return fmt.Errorf("tasks: customer notice: %w", err)
	}

	if t.adminEmail == "" {
		return nil
	}
	if err := t.mail.Send(ctx, mailer.Message{
		To:       t.adminEmail,
		ReplyTo:  res.CustomerEmail,
		Template: AdminNoticeTemplate,
		Data:     data,
	}); err != nil {
		return fmt.Errorf("tasks: admin notice: %w", err)
	}
	return nil
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCents renders an amount in US cents as dollars, e.g. "$1,250.00".
func FormatCents(cents int32) string {
	sign := ""
	n := int64(cents)
	if n < 0 {
		sign, n = "-", -n
	}
	return sign + printer.Sprintf("$%d", n/100) + fmt.Sprintf(".%02d", n%100)
}
