package listing

import (
	"encoding/json"
	"math"
	"mime"
	"strconv"
	"strings"

	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/pkg/slug"
)

// Input holds the listing fields as submitted. Numeric fields are already
// lenient-parsed: nil means absent or invalid.
type Input struct {
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
	// Alt is the shared alt text for images without their own.
	Alt string
}

func (in Input) params() (repository.CreateDogParams, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return repository.CreateDogParams{}, &ValidationError{Field: "name", Message: "Name is required"}
	}

	src := strings.TrimSpace(in.Slug)
	if src == "" {
		src = name
	}
	s := slug.Make(src)
	if s == "" {
		return repository.CreateDogParams{}, &ValidationError{Field: "slug", Message: "Slug must contain letters or digits"}
	}

	status := strings.TrimSpace(in.Status)
	switch status {
	case "":
		status = repository.DogAvailable
	case repository.DogAvailable, repository.DogReserved, repository.DogSold, repository.DogHidden:
	default:
		return repository.CreateDogParams{}, &ValidationError{Field: "status", Message: "Unknown status"}
	}

	return repository.CreateDogParams{
		Name:         name,
		Slug:         s,
		Breed:        in.Breed,
		Sex:          in.Sex,
		Color:        in.Color,
		AgeWeeks:     in.AgeWeeks,
		WeightLbs:    in.WeightLbs,
		PriceCents:   in.PriceCents,
		DepositCents: in.DepositCents,
		Status:       status,
		Description:  in.Description,
	}, nil
}

// ParseOptionalInt parses a form value leniently. Blank, non-numeric,
// non-finite and out-of-range values yield nil; fractions are rounded.
func ParseOptionalInt(s string) *int32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return fromFloat(f)
}

// OptionalInt is ParseOptionalInt for decoded JSON values.
func OptionalInt(v any) *int32 {
	switch v := v.(type) {
	case float64:
		return fromFloat(v)
	case json.Number:
		return ParseOptionalInt(v.String())
	case string:
		return ParseOptionalInt(v)
	default:
		return nil
	}
}

func fromFloat(f float64) *int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Round(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	n := int32(f)
	return &n
}

// extension maps a declared content type to an object key extension.
func extension(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mt {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "bin"
	}
}
