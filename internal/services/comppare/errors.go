package comppare

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNotAuthenticated is returned by operations that need a token when
	// Login has not succeeded yet. No request is sent.
	ErrNotAuthenticated = errors.New("not authenticated, login first")

	// ErrFileNotFound is returned by UploadImage when the local file is missing.
	ErrFileNotFound = errors.New("file not found")

	// ErrAuthenticationFailed is matched by *AuthError.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	// Body is the raw response body.
	Body []byte
	// Detail holds the decoded JSON body, nil when the body is not JSON.
	Detail any
}

func newHTTPError(statusCode int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: statusCode, Body: body}
	var detail any
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &detail) == nil {
		e.Detail = detail
	}
	return e
}

func (e *HTTPError) Error() string {
	if e.Decoded() {
		var buf bytes.Buffer
		if err := json.Compact(&buf, e.Body); err == nil {
			return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, buf.String())
		}
	}
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Decoded reports whether the error body was valid JSON.
func (e *HTTPError) Decoded() bool {
	return e.Detail != nil
}

// Message returns the server supplied "message" or "error" field, if any.
func (e *HTTPError) Message() string {
	if !e.Decoded() {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if v := gjson.GetBytes(e.Body, key); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

// NetworkError is returned when the server could not be reached at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is (or wraps) a *NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsHTTPError reports whether err is (or wraps) an *HTTPError and returns it.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// AuthError is returned by Login when the response carries no token.
type AuthError struct {
	// Response is the raw login response body.
	Response []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAuthenticationFailed, strings.TrimSpace(string(e.Response)))
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}

// DecodeError is returned when a 2xx body cannot be decoded into the
// expected result.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
