package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the backend rejected the bearer credential
	ErrUnauthorized = errors.New("apiclient.unauthorized")

	// ErrTransient indicates a network failure or an undecodable response
	ErrTransient = errors.New("apiclient.transient")

	// ErrEmptyBaseURL indicates the client was constructed without a base URL
	ErrEmptyBaseURL = errors.New("apiclient.empty_base_url")
)

// APIError is a request the backend understood and refused: validation
// failures, duplicate registrations, bad passwords. The Message field is
// the backend's user-facing text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: backend rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("apiclient: %s (status %d)", e.Message, e.Status)
}

// Message extracts the backend's user-facing message from an error, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
