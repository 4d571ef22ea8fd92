package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/middlewares"
)

// Listings is implemented by *listing.Service.
type Listings interface {
	Create(ctx context.Context, in listing.Input, files []listing.File) (listing.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (listing.Listing, error)
	Update(ctx context.Context, id uuid.UUID, in listing.Input) (repository.Dog, error)
	AddImages(ctx context.Context, dogID uuid.UUID, alt string, files []listing.File) (listing.Listing, error)
	DeleteImage(ctx context.Context, dogID, imageID uuid.UUID) error
	ReorderImages(ctx context.Context, dogID uuid.UUID, order []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DogLister interface {
	ListDogs(ctx context.Context) ([]repository.Dog, error)
}

// AdminDogs is the listing management API under /api/admin/dogs.
type AdminDogs struct {
	listings Listings
	dogs     DogLister
	public   *PublicCache
}

func NewAdminDogs(listings Listings, dogs DogLister, public *PublicCache) *AdminDogs {
	return &AdminDogs{listings: listings, dogs: dogs, public: public}
}

func (h *AdminDogs) Routes(r internal.Router) {
	r.Route(middlewares.AdminAPIPrefix+"/dogs", func(r internal.Router) {
		r.GET("/", h.list)
		r.POST("/", h.create)
		r.GET("/{id:"+uuidPattern+"}", h.get)
		r.PUT("/{id:"+uuidPattern+"}", h.update)
		r.DELETE("/{id:"+uuidPattern+"}", h.delete)
		r.POST("/{id:"+uuidPattern+"}/images", h.addImages)
		r.PUT("/{id:"+uuidPattern+"}/images/order", h.reorderImages)
		r.DELETE("/{id:"+uuidPattern+"}/images/{image:"+uuidPattern+"}", h.deleteImage)
	})
}

// dogRequest is the JSON form of listing.Input. Numbers may arrive as
// numbers or strings and are parsed leniently.
type dogRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Breed        string `json:"breed"`
	Sex          string `json:"sex"`
	Color        string `json:"color"`
	AgeWeeks     any    `json:"age_weeks"`
	WeightLbs    any    `json:"weight_lbs"`
	PriceCents   any    `json:"price_cents"`
	DepositCents any    `json:"deposit_cents"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	Alt          string `json:"alt"`
}

func (r dogRequest) input() listing.Input {
	return listing.Input{
		Name:         r.Name,
		Slug:         r.Slug,
		Breed:        r.Breed,
		Sex:          r.Sex,
		Color:        r.Color,
		AgeWeeks:     listing.OptionalInt(r.AgeWeeks),
		WeightLbs:    listing.OptionalInt(r.WeightLbs),
		PriceCents:   listing.OptionalInt(r.PriceCents),
		DepositCents: listing.OptionalInt(r.DepositCents),
		Status:       r.Status,
		Description:  r.Description,
		Alt:          r.Alt,
	}
}

func (h *AdminDogs) list(c internal.Context) error {
	dogs, err := h.dogs.ListDogs(c.Context())
	if err != nil {
		return err
	}
	if dogs == nil {
		dogs = []repository.Dog{}
	}
	return c.JSON(http.StatusOK, dogs)
}

// create accepts a JSON body without images, or a multipart form whose
// "images" parts are uploaded in order.
func (h *AdminDogs) create(c internal.Context) error {
	var (
		in    listing.Input
		files []listing.File
	)

	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return err
		}
		defer func() { _ = form.RemoveAll() }()

		in = inputFromForm(form.Value)
		var closeFiles func()
		files, closeFiles, err = openImages(form)
		if err != nil {
			return err
		}
		defer closeFiles()
	} else {
		var req dogRequest
		if err := c.BindJSON(&req); err != nil {
			return err
		}
		in = req.input()
	}

	l, err := h.listings.Create(c.Context(), in, files)
	if err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.JSON(http.StatusCreated, l)
}

func inputFromForm(v map[string][]string) listing.Input {
	get := func(name string) string {
		if vs := v[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	return listing.Input{
		Name:         get("name"),
		Slug:         get("slug"),
		Breed:        get("breed"),
		Sex:          get("sex"),
		Color:        get("color"),
		AgeWeeks:     listing.ParseOptionalInt(get("age_weeks")),
		WeightLbs:    listing.ParseOptionalInt(get("weight_lbs")),
		PriceCents:   listing.ParseOptionalInt(get("price_cents")),
		DepositCents: listing.ParseOptionalInt(get("deposit_cents")),
		Status:       get("status"),
		Description:  get("description"),
		Alt:          get(altField),
	}
}

func (h *AdminDogs) get(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	l, err := h.listings.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *AdminDogs) update(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dogRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	dog, err := h.listings.Update(c.Context(), id, req.input())
	if err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.JSON(http.StatusOK, dog)
}

func (h *AdminDogs) delete(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.listings.Delete(c.Context(), id); err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminDogs) addImages(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if !isMultipart(c) {
		return internal.ErrBadRequest("Expected multipart/form-data")
	}

	form, err := parseMultipart(c)
	if err != nil {
		return err
	}
	defer func() { _ = form.RemoveAll() }()

	files, closeFiles, err := openImages(form)
	if err != nil {
		return err
	}
	defer closeFiles()

	l, err := h.listings.AddImages(c.Context(), id, formValue(form, altField), files)
	if err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.JSON(http.StatusCreated, l)
}

type reorderRequest struct {
	Order []uuid.UUID `json:"order" validate:"required"`
}

func (h *AdminDogs) reorderImages(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req reorderRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}
	if err := h.listings.ReorderImages(c.Context(), id, req.Order); err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminDogs) deleteImage(c internal.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	imageID, err := uuidParam(c, "image")
	if err != nil {
		return err
	}
	if err := h.listings.DeleteImage(c.Context(), id, imageID); err != nil {
		return err
	}
	h.public.Purge(c.Context())
	return c.NoContent(http.StatusNoContent)
}
