package cms

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidJSON means the CMS answered with a body that is not JSON.
	ErrInvalidJSON = errors.New("cms returned invalid JSON")
	// ErrMissingData means the response had neither errors nor a data envelope.
	ErrMissingData = errors.New("cms response is missing data")
)

// TransportError wraps a failure to reach the CMS at all.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cms request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cms responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("cms responded with status %d: %s", e.StatusCode, e.Body)
}

// GraphQLError carries the error list of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL errors: " + strings.Join(e.Messages, " | ")
}

// IsUnavailable reports whether err means the CMS could not serve the
// request, as opposed to rejecting the query itself.
func IsUnavailable(err error) bool {
	var transport *TransportError
	var status *StatusError
	if errors.As(err, &transport) {
		return true
	}
	if errors.As(err, &status) {
		return status.StatusCode >= 500 || status.StatusCode == 429
	}
	return false
}
