package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/sanitizer"
)

// ReservationService is implemented by *reservation.Service.
type ReservationService interface {
	Create(ctx context.Context, in reservation.Input) (repository.Reservation, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (repository.Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID) (repository.Reservation, error)
	List(ctx context.Context) ([]repository.Reservation, error)
}

type Reservations struct {
	svc    ReservationService
	public *PublicCache
	limit  []internal.Middleware
}

func NewReservations(svc ReservationService, public *PublicCache, limit ...internal.Middleware) *Reservations {
	return &Reservations{svc: svc, public: public, limit: limit}
}

func (h *Reservations) Routes(r internal.Router) {
	r.POST("/api/reservations", h.create, h.limit...)

	r.Route(middlewares.AdminAPIPrefix+"/reservations", func(r internal.Router) {
		r.GET("/", h.list)
		r.POST("/{id:"+uuidPattern+"}/paid", h.markPaid)
		r.POST("/{id:"+uuidPattern+"}/cancel", h.cancel)
	})
}

type reservationRequest struct {
	DogID   string `json:"dog_id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"max=2000"`
}

func (h *Reservations) create(c internal.Context) error {
	var req reservationRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	dogID, err := uuid.Parse(req.DogID)
	if err != nil {
		return internal.ErrBadRequest("Invalid dog_id", internal.WithError(err))
	}

	res, err := h.svc.Create(c.Context(), reservation.Input{
		DogID:         dogID,
		CustomerName:  sanitizer.PlainText(req.Name),
		CustomerEmail: req.Email,
		CustomerPhone: sanitizer.PlainText(req.Phone),
		Message:       sanitizer.PlainText(req.Message),
	})
	if err != nil {
		return err
	}
	c.LogInfo("reservation created", "reservation_id", res.ID, "dog_id", dogID)
	return c.JSON(http.StatusCreated, map[string]any{
		"id":            res.ID,
		"status":        res.Status,
		"deposit_cents": res.DepositCents,
	})
}

func (h *Reservations) list(c internal.Context) error {
	rs, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	if rs == nil {
		rs = []repository.Reservation{}
	}
	return c.JSON(http.StatusOK, rs)
}

// markPaid and cancel change the dog's public status, so both purge.
func (h *Reservations) markPaid(c internal.Context) error {
	return h.transition(c, h.svc.MarkPaid)
}

func (h *Reservations) cancel(c internal.Context) error {
	return h.transition(c, h.svc.Cancel)
}

func (h *Reservations) transition(c internal.Context, fn func(context.Context, uuid.UUID) (repository.Reservation, error)) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	res, err := fn(c.Context(), id)
	if err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.JSON(http.StatusOK, res)
}
