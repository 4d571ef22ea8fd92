package adminauth

import "errors"

var (
	// ErrUnavailable is returned when no shared admin secret is configured.
	// It is a deployment defect, distinct from a failed login.
	ErrUnavailable = errors.New("adminauth: shared secret not configured")

	// ErrInvalidPasscode is returned when the submitted passcode does not match.
	ErrInvalidPasscode = errors.New("adminauth: invalid passcode")
)
