package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingToken        = errors.New("authorization token missing")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrIdentityUnavailable = errors.New("identity unavailable")
	ErrIdentityTimeout     = errors.New("identity lookup timed out")
	ErrInvalidInput        = errors.New("invalid input")
	ErrProfileExists       = errors.New("profile already exists")
	ErrNotFound            = errors.New("resource not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// FieldError names one failing field of a draft.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}
