package listing

import "strings"

// ValidationError reports a single invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "listing: invalid " + e.Field + ": " + e.Message
}

// RollbackError is returned when a write failed and the partial state was
// rolled back. Err is the failure that triggered the rollback; Cleanup holds
// the rollback steps that failed, if any.
type RollbackError struct {
	Err     error
	Cleanup []error
}

func (e *RollbackError) Error() string {
	if len(e.Cleanup) == 0 {
		return e.Err.Error() + " (rolled back)"
	}
	msgs := make([]string, len(e.Cleanup))
	for i, err := range e.Cleanup {
		msgs[i] = err.Error()
	}
	return e.Err.Error() + " (rollback incomplete: " + strings.Join(msgs, "; ") + ")"
}

func (e *RollbackError) Unwrap() error { return e.Err }

// Clean reports whether every rollback step succeeded.
func (e *RollbackError) Clean() bool { return len(e.Cleanup) == 0 }
