package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/internal/reservation"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/adminauth"
	"github.com/dmitrymomot/kennel/pkg/storage"
	"github.com/dmitrymomot/kennel/pkg/validator"
)

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ErrorHandler renders handler errors as JSON. Server-side failures are
// logged with their cause; the client only sees a generic message.
func ErrorHandler(c internal.Context, err error) error {
	he := toHTTPError(err)

	if he.Code >= http.StatusInternalServerError {
		var pe *middlewares.PanicError
		if errors.As(err, &pe) {
			c.LogError("panic recovered", "panic", fmt.Sprint(pe.Value), "stack", string(pe.Stack))
		} else {
			c.LogError("request failed", "error", err)
		}
	}

	return c.JSON(he.Code, map[string]errorBody{"error": {
		Code:      he.ErrorCode,
		Message:   he.Message,
		RequestID: middlewares.GetRequestID(c),
		Fields:    he.Fields,
	}})
}

// NotFound and MethodNotAllowed answer unmatched routes in the same format.
func NotFound(internal.Context) error {
	return internal.ErrNotFound("Not found")
}

func MethodNotAllowed(internal.Context) error {
	return internal.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
}

func toHTTPError(err error) *internal.HTTPError {
	var (
		he    *internal.HTTPError
		verrs validator.ValidationErrors
		lerr  *listing.ValidationError
		te    *middlewares.TimeoutError
		ferr  *storage.FileValidationError
	)

	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &verrs):
		return internal.ErrUnprocessable("Validation failed", internal.WithFields(verrs.Fields()), internal.WithError(err))
	case errors.As(err, &lerr):
		return internal.ErrUnprocessable(lerr.Message,
			internal.WithFields(map[string]string{lerr.Field: lerr.Message}),
			internal.WithError(err),
		)
	case errors.As(err, &te):
		return internal.NewHTTPError(http.StatusGatewayTimeout, "Request timed out", internal.WithError(err))
	case errors.Is(err, adminauth.ErrUnavailable):
		return internal.ErrInternal("Admin login is not configured",
			internal.WithErrorCode("server_misconfigured"),
			internal.WithError(err),
		)
	case errors.Is(err, repository.ErrNotFound):
		return internal.ErrNotFound("Not found", internal.WithError(err))
	case errors.Is(err, repository.ErrConflict):
		return internal.ErrConflict("Already exists", internal.WithError(err))
	case errors.Is(err, reservation.ErrDogUnavailable):
		return internal.ErrConflict("This dog is no longer available",
			internal.WithErrorCode("dog_unavailable"),
			internal.WithError(err),
		)
	case errors.Is(err, reservation.ErrNoDeposit):
		return internal.ErrConflict("This dog cannot be reserved online",
			internal.WithErrorCode("no_deposit"),
			internal.WithError(err),
		)
	case errors.Is(err, reservation.ErrInvalidState):
		return internal.ErrConflict("Reservation cannot change from its current state",
			internal.WithErrorCode("invalid_state"),
			internal.WithError(err),
		)
	case errors.As(err, &ferr):
		return internal.ErrUnprocessable(ferr.Message,
			internal.WithErrorCode(ferr.Code),
			internal.WithFields(map[string]string{ferr.Field: ferr.Message}),
			internal.WithError(err),
		)
	default:
		return internal.ErrInternal("Internal server error", internal.WithError(err))
	}
}
