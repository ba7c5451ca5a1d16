// Package domain holds the quote model, the classifier, and the
// last-writer-wins merge. Errors here know nothing about HTTP; adapters
// translate the four sentinels into statuses and exit messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names a missing entity. Reason, when set, replaces the
// generated message.
type NotFoundError struct {
	Entity string
	ID     string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports state that cannot accept the requested change.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string { return e.Entity + " conflict: " + e.Reason }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError reports input rejected before it reaches the collection.
// Field is empty when the whole payload is wrong.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnavailableError reports a dependency, usually the remote endpoint, that
// could not serve the call.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewEmptyCategoryError is returned when a random pick has nothing to choose
// from.
func NewEmptyCategoryError(category string) error {
	return &NotFoundError{Entity: "quote", Reason: fmt.Sprintf("no quotes in %q yet", category)}
}

func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
