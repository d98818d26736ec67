package model

import "fmt"

// ValidationError carries the field that failed so the API can return a
// message the caller can act on instead of validator internals.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
