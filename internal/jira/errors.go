package jira

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

const maxErrorBody = 500

// APIError is a non-2xx response from Jira.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if short := Truncate(body, maxErrorBody); short != body {
		body = short + "..."
	}
	return fmt.Sprintf("jira API %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from Jira.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRetryable reports whether a request that failed with err may succeed if
// sent again: rate limiting, server errors, and network timeouts.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch code := StatusCode(err); {
	case code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	case code != 0:
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isRetryableFor narrows IsRetryable for non-idempotent methods. A POST that
// reached the server may have taken effect, so only rejections that guarantee
// it did not (429, 503) are retried.
func isRetryableFor(method string, err error) bool {
	if method != http.MethodPost {
		return IsRetryable(err)
	}
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
