// Package errors defines the failures a legisync run can hit. Callers tell
// them apart with errors.Is against the sentinels below: identity misses
// (ErrNotFound), tolerated duplicate links (ErrConflict), and data-integrity
// violations (ErrInconsistent) that must never be retried.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported so callers need a single errors import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinels matched by the typed errors in this package.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInconsistent       = errors.New("internal inconsistency")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NotFoundError is an identity-resolution miss: nothing in the store carries
// the external ID. Whether that means "create it" is up to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError reports that no resource with id exists.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InconsistencyError is a violated store invariant, typically more than one
// entity sharing an external ID within its scope.
type InconsistencyError struct {
	Resource string
	ID       string
	Count    int
	Message  string
}

func (e *InconsistencyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("internal inconsistency: %d %s entities share external ID %s", e.Count, e.Resource, e.ID)
	}
	return fmt.Sprintf("internal inconsistency for %s %s: %s", e.Resource, e.ID, e.Message)
}

func (e *InconsistencyError) Is(target error) bool { return target == ErrInconsistent }

// NewInconsistencyError reports count entities matching one external ID.
func NewInconsistencyError(resource, id string, count int) *InconsistencyError {
	return &InconsistencyError{Resource: resource, ID: id, Count: count}
}

// ValidationError rejects caller input before any remote call is made.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError rejects value for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// statusSentinels maps remote HTTP statuses onto sentinels. Any 5xx not
// listed is treated as ErrServiceUnavailable.
var statusSentinels = map[int]error{
	http.StatusBadRequest:          ErrInvalidInput,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusUnprocessableEntity: ErrInvalidInput,
	http.StatusTooManyRequests:     ErrRateLimited,
}

// APIError is a failed exchange with the remote store or an HTTP source.
// StatusCode is zero for transport and decoding failures.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	// Code is the machine-readable code from the response body, if any.
	Code string
	Err  error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	if sentinel, ok := statusSentinels[e.StatusCode]; ok {
		return target == sentinel
	}
	return e.StatusCode >= 500 && target == ErrServiceUnavailable
}

// NewAPIError reports a non-2xx response from service.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// StatusCode returns the status of the first APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ConfigError is a missing or malformed setting for a component.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError reports a bad setting for component.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// SyncError names the orchestrator step that failed and the external IDs it
// was working on.
type SyncError struct {
	Step     string
	Entities []string
	Err      error
}

func (e *SyncError) Error() string {
	if len(e.Entities) == 0 {
		return fmt.Sprintf("sync error during %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("sync error during %s (affected: %v): %v", e.Step, e.Entities, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewSyncError wraps err as a failure of step.
func NewSyncError(step string, entities []string, err error) *SyncError {
	return &SyncError{Step: step, Entities: entities, Err: err}
}

// ParseError is an undecodable JSON or YAML document.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError is a failed filesystem operation on Path.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err as a failed operation on path.
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ResourceError is a failed store write or read for one resource, such as
// "link session 2025".
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an identity miss or a 404.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a 409 from the store.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsInconsistent reports whether err is a violated store invariant.
func IsInconsistent(err error) bool { return errors.Is(err, ErrInconsistent) }

// IsValidationError reports whether err rejects caller input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsRateLimited reports whether err is a 429.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// WrapIO returns nil for a nil err, otherwise an *IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource returns nil for a nil err, otherwise a *ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse returns nil for a nil err, otherwise a *ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
