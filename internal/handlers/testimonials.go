package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/sanitizer"
	"github.com/dmitrymomot/kennel/pkg/validator"
)

// PublicTestimonialLimit caps the approved testimonials served publicly.
const PublicTestimonialLimit = 50

type TestimonialStore interface {
	CreateTestimonial(ctx context.Context, arg repository.CreateTestimonialParams) (repository.Testimonial, error)
	ListApprovedTestimonials(ctx context.Context, limit int32) ([]repository.Testimonial, error)
	ListTestimonials(ctx context.Context, status string) ([]repository.Testimonial, error)
	SetTestimonialStatus(ctx context.Context, id uuid.UUID, status string) (repository.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
}

// Testimonials takes public submissions and lets the admin moderate them.
// Only approved testimonials are ever served publicly.
type Testimonials struct {
	store  TestimonialStore
	public *PublicCache
	limit  []internal.Middleware
}

func NewTestimonials(store TestimonialStore, public *PublicCache, limit ...internal.Middleware) *Testimonials {
	return &Testimonials{store: store, public: public, limit: limit}
}

func (h *Testimonials) Routes(r internal.Router) {
	r.GET("/api/testimonials", h.listApproved)
	r.POST("/api/testimonials", h.submit, h.limit...)

	r.Route(middlewares.AdminAPIPrefix+"/testimonials", func(r internal.Router) {
		r.GET("/", h.list)
		r.POST("/{id:"+uuidPattern+"}/approve", h.setStatus(repository.TestimonialApproved))
		r.POST("/{id:"+uuidPattern+"}/reject", h.setStatus(repository.TestimonialRejected))
		r.DELETE("/{id:"+uuidPattern+"}", h.delete)
	})
}

type publicTestimonial struct {
	AuthorName string `json:"author_name"`
	Location   string `json:"location"`
	Body       string `json:"body"`
	Rating     int16  `json:"rating"`
}

func (h *Testimonials) listApproved(c internal.Context) error {
	body, err := h.public.load(c.Context(), "testimonials", func(ctx context.Context) (any, error) {
		ts, err := h.store.ListApprovedTestimonials(ctx, PublicTestimonialLimit)
		if err != nil {
			return nil, err
		}
		out := make([]publicTestimonial, len(ts))
		for i, t := range ts {
			out[i] = publicTestimonial{AuthorName: t.AuthorName, Location: t.Location, Body: t.Body, Rating: t.Rating}
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}

type testimonialRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=80"`
	Location   string `json:"location" validate:"max=80"`
	Body       string `json:"body" validate:"required,max=2000"`
	Rating     int16  `json:"rating" validate:"required,gte=1,lte=5"`
}

// submit stores a testimonial as pending. Markup is stripped.
func (h *Testimonials) submit(c internal.Context) error {
	var req testimonialRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	params := repository.CreateTestimonialParams{
		AuthorName: sanitizer.PlainText(req.AuthorName),
		Location:   sanitizer.PlainText(req.Location),
		Body:       sanitizer.PlainText(req.Body),
		Rating:     req.Rating,
	}
	var verrs validator.ValidationErrors
	if params.AuthorName == "" {
		verrs = append(verrs, validator.FieldError{Field: "author_name", Message: "is required"})
	}
	if params.Body == "" {
		verrs = append(verrs, validator.FieldError{Field: "body", Message: "is required"})
	}
	if len(verrs) > 0 {
		return verrs
	}

	t, err := h.store.CreateTestimonial(c.Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": t.ID, "status": t.Status})
}

func (h *Testimonials) list(c internal.Context) error {
	status := c.Query("status")
	switch status {
	case "", repository.TestimonialPending, repository.TestimonialApproved, repository.TestimonialRejected:
	default:
		return internal.ErrBadRequest("Unknown status")
	}
	ts, err := h.store.ListTestimonials(c.Context(), status)
	if err != nil {
		return err
	}
	if ts == nil {
		ts = []repository.Testimonial{}
	}
	return c.JSON(http.StatusOK, ts)
}

func (h *Testimonials) setStatus(status string) internal.HandlerFunc {
	return func(c internal.Context) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		t, err := h.store.SetTestimonialStatus(c.Context(), id, status)
		if err != nil {
			return err
		}
		h.public.Purge(c.Context())
		return c.JSON(http.StatusOK, t)
	}
}

func (h *Testimonials) delete(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteTestimonial(c.Context(), id); err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.NoContent(http.StatusNoContent)
}
