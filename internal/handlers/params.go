package handlers

import (
	"mime"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
)

// uuidPattern restricts {id} route parameters so other values 404.
const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

func uuidParam(c internal.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, internal.ErrBadRequest("Invalid "+name, internal.WithError(err))
	}
	return id, nil
}

func isMultipart(c internal.Context) bool {
	mt, _, err := mime.ParseMediaType(c.Header("Content-Type"))
	return err == nil && strings.EqualFold(mt, "multipart/form-data")
}

func isForm(c internal.Context) bool {
	mt, _, err := mime.ParseMediaType(c.Header("Content-Type"))
	return err == nil && strings.EqualFold(mt, "application/x-www-form-urlencoded")
}

// formValue returns the first value of a multipart field, or "".
func formValue(form *multipart.Form, name string) string {
	if v := form.Value[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}
