package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoToken indicates the request carried no bearer token.
	ErrNoToken = errors.New("no token, authorization denied")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("token is not valid")
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when registering with an email already in use.
	ErrUserExists = errors.New("user is already existed")
	// ErrUserNotFound indicates the user id or email has no matching record.
	ErrUserNotFound = errors.New("user not found")
	// ErrContactNotFound indicates the contact id does not exist.
	ErrContactNotFound = errors.New("contact is not found")
	// ErrNotOwner indicates the contact exists but belongs to another user.
	ErrNotOwner = errors.New("not authorized")
)

// FieldError is a single validation failure tied to an input field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationError aggregates all field-level failures for one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Param, f.Msg)
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(param, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Param: param, Msg: msg}}}
}
