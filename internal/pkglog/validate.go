package pkglog

import (
	"errors"
	"fmt"
)

// ValidationError reports an entry that cannot be accepted by a store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the append preconditions: non-empty name and manager,
// known action and scope, non-zero timestamp.
func (e Entry) Validate() error {
	if e.Name == "" {
		return &ValidationError{Field: "name", Message: "must be non-empty"}
	}
	if e.Manager == "" {
		return &ValidationError{Field: "manager", Message: "must be non-empty"}
	}
	if !ValidAction(e.Action) {
		return &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", e.Action)}
	}
	if !ValidScope(e.Scope) {
		return &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", e.Scope)}
	}
	if e.Timestamp.IsZero() {
		return &ValidationError{Field: "date", Message: "must be set"}
	}
	return nil
}
