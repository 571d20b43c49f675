// Package errs holds the error kinds that handlers translate into HTTP responses.
package errs

import (
	"errors"
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means the request carried no usable token.
	ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")

	// ErrDuplicate is returned by repositories when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidCredentials does not say whether the email or the password was wrong.
	ErrInvalidCredentials = Invalid(NonFieldErrors, "Unable to authenticate with provided credentials.")
)

// ValidationError carries field level messages for malformed input.
type ValidationError struct {
	Fields map[string][]string
}

func Invalid(field string, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

func (e *ValidationError) Add(field string, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// OrNil returns nil when no field was added, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IntegrityError reports a unique field that is already taken.
type IntegrityError struct {
	Field   string
	Message string
	Err     error
}

func (e *IntegrityError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func Duplicate(field string, message string) *IntegrityError {
	return &IntegrityError{Field: field, Message: message, Err: ErrDuplicate}
}
