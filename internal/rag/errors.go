package rag

import "fmt"

// ValidationError represents a request validation failure. Handlers map
// it to a 400; every other engine failure degrades into a best-effort
// response body instead of an error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
