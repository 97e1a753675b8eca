package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrServerUnreachable indicates a transport-level failure with no response
	ErrServerUnreachable = errors.New("catalog server is unreachable")

	// ErrAuthFailed indicates bad credentials or an invalid/expired token
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrRetryExhausted indicates the image-processing poll gave up after
	// its maximum attempt count
	ErrRetryExhausted = errors.New("image not visible after maximum poll attempts")

	// ErrNoSession indicates an authenticated call was made with no stored session
	ErrNoSession = errors.New("no active session")
)

// RemoteError is a non-2xx server response that is not an auth failure.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
}

// ValidationError aggregates the field messages the signup endpoint
// returns. Message joins them for display.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message returns the user-facing text, field messages joined.
func (e *ValidationError) Message() string {
	return strings.Join(e.Messages, ". ")
}

// DataShapeError indicates a response was missing an expected field.
// Treated as fatal for that call: an absent field is a server contract
// violation, not an empty value.
type DataShapeError struct {
	Field string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("response missing expected field %q", e.Field)
}

// UnsupportedImageError is a client-side rejection of an upload whose
// declared content type is not in the allow-list. No network call is made.
type UnsupportedImageError struct {
	ContentType string
}

func (e *UnsupportedImageError) Error() string {
	return fmt.Sprintf("unsupported image type %q", e.ContentType)
}
