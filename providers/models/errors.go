package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoResponseBody is returned when a successful response carries no body to stream.
	ErrNoResponseBody = errors.New("no response body")
	// ErrEmptyGeneration is returned when a stream ends without any generated text.
	ErrEmptyGeneration = errors.New("no commit message generated")
	// ErrStreamFailed marks an error object sent by the service in the middle of a stream.
	ErrStreamFailed = errors.New("generation stream failed")
)

// APIError is a non-2xx response. Body is the response text, verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status code '%d' - %s", e.StatusCode, e.Body)
}
