package services

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindProvider
	KindSignature
)

// ServiceError is the error type every service operation returns for
// expected failures. Message is safe to show to clients.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Status maps the error kind onto an HTTP status code.
func (e *ServiceError) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindSignature:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func validationError(msg string) error {
	return &ServiceError{Kind: KindValidation, Message: msg}
}

func authenticationError(msg string) error {
	return &ServiceError{Kind: KindAuthentication, Message: msg}
}

func authorizationError(msg string) error {
	return &ServiceError{Kind: KindAuthorization, Message: msg}
}

func conflictError(msg string) error {
	return &ServiceError{Kind: KindConflict, Message: msg}
}

func notFoundError(msg string) error {
	return &ServiceError{Kind: KindNotFound, Message: msg}
}

func providerError(msg string, err error) error {
	return &ServiceError{Kind: KindProvider, Message: msg, Err: err}
}

func signatureError(msg string) error {
	return &ServiceError{Kind: KindSignature, Message: msg}
}

// AsServiceError unwraps err into a *ServiceError if it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StatusCode returns the HTTP status for err, 500 for anything unexpected.
func StatusCode(err error) int {
	if se, ok := AsServiceError(err); ok {
		return se.Status()
	}
	return http.StatusInternalServerError
}
