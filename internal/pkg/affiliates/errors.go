package affiliates

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced affiliate identifier is absent.
var ErrNotFound = errors.New("affiliate not found")

// ValidationError reports missing or malformed creation input. It is kept
// distinct from store and remote errors so handlers can answer 4xx.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
