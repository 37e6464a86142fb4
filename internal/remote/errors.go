package remote

import (
	"fmt"
	"net/http"

	"weekly-tracker/internal/domain/tracker"
)

// APIError is a non-2xx response from the tracker API.
type APIError struct {
	StatusCode int
	Detail     string
	Code       string

	notFound error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker api: %d %s", e.StatusCode, e.Detail)
}

// Unwrap maps the status to the matching domain error, so callers can use
// errors.Is against the tracker sentinels whatever store they talk to.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return tracker.ErrDuplicateWeek
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return tracker.ErrInvalidInput
	case http.StatusNotFound:
		return e.notFound
	default:
		return nil
	}
}
