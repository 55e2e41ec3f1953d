package store

import (
	"errors"
	"fmt"
	"time"
)

// StoreError represents a failure inside the log store.
//
// Store errors include:
//   - Lock timeout: another writer held the scope lock past the bound
//   - Codec failure: a physical file could not be encoded or decoded
//
// StoreError includes structured fields for diagnostics and recovery.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path identifies the affected file, when one is involved.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeLockTimeout indicates the scope lock could not be acquired
	// within the configured bound. The operation is retryable.
	ErrCodeLockTimeout ErrorCode = "LOCK_TIMEOUT"

	// ErrCodeCodec indicates a physical file could not be encoded or
	// decoded.
	ErrCodeCodec ErrorCode = "CODEC"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (file=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failed operation may be retried as-is.
// Lock contention is transient; codec failures are not.
func (e *StoreError) Retryable() bool {
	return e.Code == ErrCodeLockTimeout
}

// IsLockTimeout returns true if the error is a lock acquisition timeout.
// Uses errors.As to handle wrapped errors.
func IsLockTimeout(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeLockTimeout
	}
	return false
}

// IsCodecError returns true if the error is a codec failure.
// Uses errors.As to handle wrapped errors.
func IsCodecError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeCodec
	}
	return false
}

// newLockTimeoutError creates a StoreError for lock contention.
func newLockTimeoutError(path string, wait time.Duration, err error) *StoreError {
	return &StoreError{
		Code:    ErrCodeLockTimeout,
		Message: fmt.Sprintf("could not acquire scope lock within %s", wait),
		Path:    path,
		Err:     err,
	}
}

// newCodecError creates a StoreError for an encode/decode failure.
func newCodecError(path, message string, err error) *StoreError {
	return &StoreError{
		Code:    ErrCodeCodec,
		Message: message,
		Path:    path,
		Err:     err,
	}
}
