package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

const (
	// MaxUploadBody caps a whole multipart request.
	MaxUploadBody = 64 << 20
	// MaxImageSize caps a single image.
	MaxImageSize = 10 << 20

	multipartMemory = 8 << 20

	imagesField   = "images"
	imageAltField = "image_alt"
	altField      = "alt"
)

// parseMultipart bounds the body and parses it. RemoveAll must run once
// the parts are no longer read.
func parseMultipart(c internal.Context) (*multipart.Form, error) {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, MaxUploadBody)
	return c.MultipartForm(multipartMemory)
}

// openImages opens every part under "images", sniffs its real content
// type and rejects anything that is not a supported image. The i-th
// "image_alt" value becomes the alt text of the i-th image. The returned
// close func releases the opened parts.
func openImages(form *multipart.Form) ([]listing.File, func(), error) {
	headers := form.File[imagesField]
	alts := form.Value[imageAltField]

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]listing.File, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, internal.ErrBadRequest("Unreadable upload", internal.WithError(err))
		}
		opened = append(opened, f)

		mimeType, body, err := storage.Sniff(f)
		if err != nil {
			closeAll()
			return nil, func() {}, internal.ErrBadRequest("Unreadable upload", internal.WithError(err))
		}
		if err := storage.Validate(fh.Size, mimeType,
			storage.NotEmpty(),
			storage.MaxSize(MaxImageSize),
			storage.ImagesOnly(),
		); err != nil {
			closeAll()
			return nil, func() {}, err
		}

		file := listing.File{Body: body, Size: fh.Size, ContentType: mimeType}
		if i < len(alts) {
			file.Alt = alts[i]
		}
		files = append(files, file)
	}
	return files, closeAll, nil
}
