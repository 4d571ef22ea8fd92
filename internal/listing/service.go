package listing

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/pkg/id"
	"github.com/dmitrymomot/kennel/pkg/logger"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

// Store is the subset of repository.Queries the service writes through.
type Store interface {
	CreateDog(ctx context.Context, arg repository.CreateDogParams) (repository.Dog, error)
	GetDog(ctx context.Context, id uuid.UUID) (repository.Dog, error)
	UpdateDog(ctx context.Context, arg repository.UpdateDogParams) (repository.Dog, error)
	SetDogCover(ctx context.Context, id uuid.UUID, url *string) error
	DeleteDog(ctx context.Context, id uuid.UUID) error

	CreateDogImage(ctx context.Context, arg repository.CreateDogImageParams) (repository.DogImage, error)
	GetDogImage(ctx context.Context, id uuid.UUID) (repository.DogImage, error)
	ListDogImages(ctx context.Context, dogID uuid.UUID) ([]repository.DogImage, error)
	MaxDogImageSortOrder(ctx context.Context, dogID uuid.UUID) (int32, error)
	UpdateDogImageSortOrder(ctx context.Context, arg repository.UpdateDogImageSortOrderParams) error
	DeleteDogImage(ctx context.Context, id uuid.UUID) error
	DeleteDogImagesByDog(ctx context.Context, dogID uuid.UUID) error
}

// Blobs is the object storage the images live in.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	List(ctx context.Context, prefix string) ([]storage.Object, error)
}

// File is one image to upload.
type File struct {
	Body        io.Reader
	Size        int64
	ContentType string
	// Alt overrides Input.Alt for this file.
	Alt string
}

// Listing is a dog together with its images in display order.
type Listing struct {
	repository.Dog
	Images []repository.DogImage `json:"images"`
}

// Service creates and manages listings across the database and blob storage.
type Service struct {
	store Store
	blobs Blobs
	log   *slog.Logger
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for rollback and cleanup warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithIDFunc replaces the generator for object key names.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService returns a Service that logs nowhere until WithLogger is given.
func NewService(store Store, blobs Blobs, opts ...Option) *Service {
	s := &Service{
		store: store,
		blobs: blobs,
		log:   logger.NewNope(),
		newID: id.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix is the object key prefix shared by every image of a dog.
func Prefix(dogID uuid.UUID) string {
	return dogID.String() + "/"
}

func (s *Service) objectKey(dogID uuid.UUID, contentType string) string {
	return Prefix(dogID) + s.newID() + "." + extension(contentType)
}
