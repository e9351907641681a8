package scorer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx answer from the scorer service.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "scorer http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "scorer http error"
	}
	return fmt.Sprintf("scorer http error: status=%d message=%s", e.StatusCode, msg)
}

// Retryable reports whether another attempt could succeed.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// parseHTTPError understands FastAPI's {"detail": ...} and the
// {"error":{"message"}} envelope; anything else keeps only the raw body.
func parseHTTPError(status int, raw []byte) *HTTPError {
	out := &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(raw))}

	var detail struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && len(detail.Detail) > 0 {
		var s string
		if json.Unmarshal(detail.Detail, &s) == nil {
			out.Message = strings.TrimSpace(s)
		} else {
			out.Message = strings.TrimSpace(string(detail.Detail))
		}
		return out
	}

	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		out.Message = strings.TrimSpace(env.Error.Message)
	}
	return out
}
