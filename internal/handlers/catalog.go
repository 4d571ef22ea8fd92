package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/pkg/markdown"
)

type DogCatalog interface {
	ListPublicDogs(ctx context.Context) ([]repository.Dog, error)
	GetPublicDogBySlug(ctx context.Context, slug string) (repository.Dog, error)
	ListImagesForDogs(ctx context.Context, dogIDs []uuid.UUID) ([]repository.DogImage, error)
}

// Catalog serves the public, cached view of the listings.
type Catalog struct {
	store  DogCatalog
	public *PublicCache
}

func NewCatalog(store DogCatalog, public *PublicCache) *Catalog {
	return &Catalog{store: store, public: public}
}

func (h *Catalog) Routes(r internal.Router) {
	r.GET("/api/dogs", h.list)
	r.GET("/api/dogs/{slug}", h.get)
}

// publicDog is a listing as the storefront sees it.
type publicDog struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Slug            string        `json:"slug"`
	Breed           string        `json:"breed"`
	Sex             string        `json:"sex"`
	Color           string        `json:"color"`
	AgeWeeks        *int32        `json:"age_weeks"`
	WeightLbs       *int32        `json:"weight_lbs"`
	PriceCents      *int32        `json:"price_cents"`
	DepositCents    *int32        `json:"deposit_cents"`
	Status          string        `json:"status"`
	DescriptionHTML string        `json:"description_html"`
	CoverImageURL   *string       `json:"cover_image_url"`
	Images          []publicImage `json:"images"`
}

type publicImage struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

func toPublicDog(d repository.Dog, images []repository.DogImage) (publicDog, error) {
	desc, err := markdown.ToHTML(d.Description)
	if err != nil {
		return publicDog{}, err
	}
	out := publicDog{
		ID:              d.ID,
		Name:            d.Name,
		Slug:            d.Slug,
		Breed:           d.Breed,
		Sex:             d.Sex,
		Color:           d.Color,
		AgeWeeks:        d.AgeWeeks,
		WeightLbs:       d.WeightLbs,
		PriceCents:      d.PriceCents,
		DepositCents:    d.DepositCents,
		Status:          d.Status,
		DescriptionHTML: desc,
		CoverImageURL:   d.CoverImageURL,
		Images:          make([]publicImage, 0, len(images)),
	}
	for _, img := range images {
		out.Images = append(out.Images, publicImage{URL: img.URL, Alt: img.Alt})
	}
	return out, nil
}

func (h *Catalog) list(c internal.Context) error {
	body, err := h.public.load(c.Context(), "dogs", func(ctx context.Context) (any, error) {
		dogs, err := h.store.ListPublicDogs(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(dogs))
		for i, d := range dogs {
			ids[i] = d.ID
		}
		images, err := h.store.ListImagesForDogs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byDog := make(map[uuid.UUID][]repository.DogImage, len(dogs))
		for _, img := range images {
			byDog[img.DogID] = append(byDog[img.DogID], img)
		}

		out := make([]publicDog, 0, len(dogs))
		for _, d := range dogs {
			pd, err := toPublicDog(d, byDog[d.ID])
			if err != nil {
				return nil, err
			}
			out = append(out, pd)
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Catalog) get(c internal.Context) error {
	slug := c.Param("slug")
	body, err := h.public.load(c.Context(), "dog:"+slug, func(ctx context.Context) (any, error) {
		dog, err := h.store.GetPublicDogBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		images, err := h.store.ListImagesForDogs(ctx, []uuid.UUID{dog.ID})
		if err != nil {
			return nil, err
		}
		return toPublicDog(dog, images)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, body)
}
