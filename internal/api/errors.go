package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server-provided text, empty when the body carried none.
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure or an unreadable response body.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is, or wraps, a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ServerMessage returns the server-provided text of err when it is a
// *RequestError with a message, otherwise fallback.
func ServerMessage(err error, fallback string) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// extractMessage looks for the first non-empty string under keys in a JSON
// object body. Anything else yields "".
func extractMessage(data json.RawMessage, keys ...string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return ""
	}
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
