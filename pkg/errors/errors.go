// Package errors provides custom error types for the credsync system.
// These errors enable programmatic error checking and make the failure
// kind (credentials, upstream fetch, storage write) distinguishable in
// tests and logs even though every kind collapses to the same exit code.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the credsync system
var (
	// ErrMissingCredentials indicates a required writer credential is empty
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable indicates the upstream feed could not be read
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ConfigError represents a configuration error, including the pre-flight
// credentials check.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: err}
}

// FetchError represents a failure reading or decoding an upstream feed.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch error from %s (status %d): %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch error from %s: %s", e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// StorageError represents a failure talking to the record-storage server.
type StorageError struct {
	Operation  string // "list", "create", "update", "batch", "patch"
	Collection string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("storage error during %s of %s (status %d): %s",
			e.Operation, e.Collection, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storage error during %s of %s: %s", e.Operation, e.Collection, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SyncError represents an error during one reconciliation flow.
type SyncError struct {
	Collection string
	Err        error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error for collection %s: %v", e.Collection, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsMissingCredentials checks if an error is the pre-flight credentials failure
func IsMissingCredentials(err error) bool {
	return errors.Is(err, ErrMissingCredentials)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstreamUnavailable checks if an error came from the upstream feed read
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// Helper wrapping functions for common patterns

// WrapFetch wraps an error as a FetchError
func WrapFetch(url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapStorage wraps an error as a StorageError
func WrapStorage(operation, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{
		Operation:  operation,
		Collection: collection,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: err.Error(),
		Err:     err,
	}
}

// WrapSync wraps an error as a SyncError
func WrapSync(collection string, err error) error {
	if err == nil {
		return nil
	}
	return &SyncError{Collection: collection, Err: err}
}
