package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure.
type Kind int

const (
	// KindNetwork means no response reached the server (or came back).
	KindNetwork Kind = iota + 1
	// KindClient is a 4xx response other than 404: the input is invalid.
	KindClient
	// KindNotFound is a 404 response; wallet loads use it to trigger
	// auto-creation.
	KindNotFound
	// KindServer is a 5xx response.
	KindServer
)

// String returns the classification name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified failure from the trading platform API.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 for network failures
	Message    string // server-provided message, if any
	cause      error  // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api %s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("api %s error %d: %s", e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether a retry might help. Invalid input never becomes
// valid by retrying; a flaky network or an overloaded server might recover.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is a 404 classification.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsRetryable reports whether err is a failure where a retry might help.
func IsRetryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// networkError wraps a transport-level failure.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: err.Error(),
		cause:   err,
	}
}

// statusError classifies a non-2xx response. The backend reports failures as
// {"message": "..."} (or {"error": "..."}); fall back to the status text when
// the body carries neither.
func statusError(statusCode int, body []byte) *Error {
	kind := KindClient
	switch {
	case statusCode == http.StatusNotFound:
		kind = KindNotFound
	case statusCode >= 500:
		kind = KindServer
	}

	message := http.StatusText(statusCode)
	var payload struct {
		Message string `json:"message"`
		ErrMsg  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.ErrMsg != "" {
			message = payload.ErrMsg
		}
	}

	return &Error{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
	}
}
