package repository

import (
	"time"

	"github.com/google/uuid"
)

// Dog statuses.
const (
	DogAvailable = "available"
	DogReserved  = "reserved"
	DogSold      = "sold"
	DogHidden    = "hidden"
)

// Testimonial statuses.
const (
	TestimonialPending  = "pending"
	TestimonialApproved = "approved"
	TestimonialRejected = "rejected"
)

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationPaid      = "paid"
	ReservationCancelled = "cancelled"
)

type Dog struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Breed         string    `json:"breed"`
	Sex           string    `json:"sex"`
	Color         string    `json:"color"`
	AgeWeeks      *int32    `json:"age_weeks"`
	WeightLbs     *int32    `json:"weight_lbs"`
	PriceCents    *int32    `json:"price_cents"`
	DepositCents  *int32    `json:"deposit_cents"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	CoverImageURL *string   `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DogImage struct {
	ID         uuid.UUID `json:"id"`
	DogID      uuid.UUID `json:"dog_id"`
	URL        string    `json:"url"`
	StorageKey string    `json:"storage_key"`
	Alt        *string   `json:"alt"`
	SortOrder  int32     `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

type Testimonial struct {
	ID         uuid.UUID  `json:"id"`
	AuthorName string     `json:"author_name"`
	Location   string     `json:"location"`
	Body       string     `json:"body"`
	Rating     int16      `json:"rating"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at"`
}

type Reservation struct {
	ID            uuid.UUID  `json:"id"`
	DogID         *uuid.UUID `json:"dog_id"`
	DogName       string     `json:"dog_name"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	Message       string     `json:"message"`
	DepositCents  int32      `json:"deposit_cents"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at"`
}
