package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the blob contract used by the listing service and the
// orphan sweeper.
type Storage interface {
	// Put uploads r under key. It fails with ErrAlreadyExists when the key is taken.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PublicURL resolves the retrieval address for key without a network call.
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
	// DeleteMany removes keys in batches. Missing keys are not an error.
	DeleteMany(ctx context.Context, keys []string) error
	// List returns every object under prefix, following pagination.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Object describes a stored blob.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Bucket    string `env:"S3_BUCKET,required"`
	AccessKey string `env:"S3_ACCESS_KEY,required"`
	SecretKey string `env:"S3_SECRET_KEY,required"`
	// Endpoint points at MinIO, R2, Supabase Storage or any other S3 API.
	Endpoint string `env:"S3_ENDPOINT"`
	Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	// PublicURL is the CDN or public bucket prefix used for image URLs.
	PublicURL string `env:"S3_PUBLIC_URL"`
	PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`
}

const (
	DefaultRegion = "us-east-1"
	// maxDeleteBatch is the DeleteObjects limit per request.
	maxDeleteBatch = 1000
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
