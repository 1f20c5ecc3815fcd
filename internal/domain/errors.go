package domain

import "fmt"

// NetworkError reports a non-success HTTP status from one of the two
// remote endpoints. The message carries the status text so the store can
// surface it directly to the user.
type NetworkError struct {
	Op         string // "geocoding" or "weather fetch"
	StatusText string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.StatusText)
}

// TransformError reports a malformed or unexpected provider payload.
// It surfaces as a generic failure message instead of crashing the store.
type TransformError struct {
	Reason string
}

func (e *TransformError) Error() string {
	return "unexpected weather payload: " + e.Reason
}
