package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer, or a 2xx envelope with ok=false.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("api error: status=%d body=%s", e.Status, e.Body)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

// UserMessage is the server's own explanation, if any.
func (e *APIError) UserMessage() string {
	return e.Message
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports a 401 from the API: the token is missing, expired
// or revoked.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// UserMessage picks the server message carried by err or fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
