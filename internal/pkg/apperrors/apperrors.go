// Package apperrors holds the error taxonomy shared by the workflow services
// and translated to HTTP outcomes by the controllers.
package apperrors

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrNotFound covers missing entities and entities outside the requested
	// visibility state, e.g. a draft looked up by its public slug.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor has no rights over the target entity.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict signals a lost uniqueness race.
	ErrConflict = errors.New("conflict")
)

// FieldError is a single field level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors of one input shape.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Get returns the first message for field or "".
func (e *ValidationError) Get(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Map returns field -> first message, used by the templates.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}

// AuthFailureKind distinguishes the login failure outcomes.
type AuthFailureKind string

const (
	BadCredentials AuthFailureKind = "bad_credentials"
	Disabled       AuthFailureKind = "disabled"
)

// AuthFailure is returned by authentication only.
type AuthFailure struct {
	Kind AuthFailureKind
}

func (e *AuthFailure) Error() string {
	return "authentication failed: " + string(e.Kind)
}

// Message is the user visible text for the failure kind.
func (e *AuthFailure) Message() string {
	if e.Kind == Disabled {
		return "Account is disabled. Contact admin."
	}
	return "Login unsuccessful. Check email and password."
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func AsAuthFailure(err error) (*AuthFailure, bool) {
	var af *AuthFailure
	if errors.As(err, &af) {
		return af, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code the transport should use.
func HTTPStatus(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case IsNotFound(err):
		return fiber.StatusNotFound
	case IsForbidden(err):
		return fiber.StatusForbidden
	case IsConflict(err):
		return fiber.StatusConflict
	}
	if _, ok := AsValidation(err); ok {
		return fiber.StatusUnprocessableEntity
	}
	if _, ok := AsAuthFailure(err); ok {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}
