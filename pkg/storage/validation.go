package storage

import (
	"fmt"
	"strings"
)

// FileValidationError describes an upload rejected before it reached storage.
type FileValidationError struct {
	Details map[string]any
	Field   string
	Code    string
	Message string
}

func (e *FileValidationError) Error() string {
	return e.Message
}

const (
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeInvalidMIME  = "invalid_mime"
	ErrCodeEmptyFile    = "empty_file"
)

// ValidationRule checks a file by size and sniffed MIME type.
type ValidationRule func(size int64, mimeType string) error

// Validate runs rules in order and returns the first failure.
func Validate(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}

// MaxSize rejects files larger than limit bytes.
func MaxSize(limit int64) ValidationRule {
	return func(size int64, _ string) error {
		if size <= limit {
			return nil
		}
		return &FileValidationError{
			Field:   "file",
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", size, limit),
			Details: map[string]any{"limit": limit, "got": size},
		}
	}
}

// NotEmpty rejects zero-length files.
func NotEmpty() ValidationRule {
	return func(size int64, _ string) error {
		if size > 0 {
			return nil
		}
		return &FileValidationError{Field: "file", Code: ErrCodeEmptyFile, Message: "file is empty"}
	}
}

// ImagesOnly accepts the raster formats a listing can display.
func ImagesOnly() ValidationRule {
	return func(_ int64, mimeType string) error {
		if IsImage(mimeType) {
			return nil
		}
		return &FileValidationError{
			Field:   "file",
			Code:    ErrCodeInvalidMIME,
			Message: fmt.Sprintf("file type %q is not allowed", mimeType),
			Details: map[string]any{"type": mimeType},
		}
	}
}

var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// IsImage reports whether mimeType (parameters ignored) is an accepted image type.
func IsImage(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	_, ok := imageTypes[strings.TrimSpace(strings.ToLower(base))]
	return ok
}
