// Package errs defines the closed set of typed business failures raised by
// the service layer. Each failure carries a transport-agnostic status/code/
// message triple; the route layer is the only place that maps them onto HTTP
// responses. Failures unwrap to a family sentinel so callers can classify
// with errors.Is without matching codes.
package errs

import (
	"errors"
	"net/http"
)

// Family sentinels, one per taxonomy group.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid state")
	ErrConflict      = errors.New("conflict")
	ErrInUse         = errors.New("in use")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Error is a structured business failure.
type Error struct {
	Status  int    // suggested transport status, boundary may remap
	Code    string // stable machine-readable code
	Message string
	family  error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.family
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the failure code, or INTERNAL_ERROR for untyped errors.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}

// StatusOf returns the suggested transport status, or 500 for untyped errors.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func newError(status int, code, message string, family error) *Error {
	return &Error{Status: status, Code: code, Message: message, family: family}
}

// NOT_FOUND family

func JobNotFound() *Error {
	return newError(http.StatusNotFound, "JOB_NOT_FOUND", "job not found", ErrNotFound)
}

func OfferNotFound() *Error {
	return newError(http.StatusNotFound, "OFFER_NOT_FOUND", "offer not found", ErrNotFound)
}

// InvalidOffer covers both a missing and an inactive offer at job creation.
func InvalidOffer() *Error {
	return newError(http.StatusBadRequest, "INVALID_OFFER", "offer is missing or inactive", ErrNotFound)
}

func AddressNotFound() *Error {
	return newError(http.StatusNotFound, "ADDRESS_NOT_FOUND", "address not found", ErrNotFound)
}

func CategoryNotFound() *Error {
	return newError(http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found", ErrNotFound)
}

func ConversationNotFound() *Error {
	return newError(http.StatusNotFound, "CONVERSATION_NOT_FOUND", "conversation not found", ErrNotFound)
}

func UserNotFound() *Error {
	return newError(http.StatusNotFound, "USER_NOT_FOUND", "user not found", ErrNotFound)
}

func ProviderNotFound() *Error {
	return newError(http.StatusNotFound, "PROVIDER_NOT_FOUND", "provider not found", ErrNotFound)
}

// AUTHORIZATION family

func Forbidden(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return newError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

func AddressForbidden() *Error {
	return newError(http.StatusForbidden, "ADDRESS_FORBIDDEN", "address does not belong to the customer", ErrForbidden)
}

func InvalidCredentials() *Error {
	return newError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", ErrUnauthorized)
}

// STATE family

func InvalidState(message string) *Error {
	if message == "" {
		message = "transition not allowed from the current state"
	}
	return newError(http.StatusBadRequest, "INVALID_STATE", message, ErrInvalidState)
}

func JobNotDone() *Error {
	return newError(http.StatusBadRequest, "JOB_NOT_DONE", "only done jobs can be reviewed", ErrInvalidState)
}

// JobWithoutProvider guards an internal-consistency violation: a done job
// must always carry an assigned provider.
func JobWithoutProvider() *Error {
	return newError(http.StatusBadRequest, "JOB_WITHOUT_PROVIDER", "job has no assigned provider", ErrInvalidState)
}

// CONFLICT family

func EmailTaken() *Error {
	return newError(http.StatusConflict, "EMAIL_TAKEN", "email is already registered", ErrConflict)
}

func SlugTaken() *Error {
	return newError(http.StatusConflict, "SLUG_TAKEN", "category slug already exists", ErrConflict)
}

// IN_USE family

func AddressInUse() *Error {
	return newError(http.StatusBadRequest, "ADDRESS_IN_USE", "address is referenced by an active job", ErrInUse)
}

func OfferInUse() *Error {
	return newError(http.StatusBadRequest, "OFFER_IN_USE", "offer is referenced by an active job", ErrInUse)
}

func CategoryInUse() *Error {
	return newError(http.StatusBadRequest, "CATEGORY_IN_USE", "category is referenced by an offer or job", ErrInUse)
}

// VALIDATION

func InvalidInput(message string) *Error {
	return newError(http.StatusBadRequest, "INVALID_INPUT", message, ErrInvalidInput)
}

func InvalidPassword() *Error {
	return newError(http.StatusBadRequest, "INVALID_PASSWORD", "current password is incorrect", ErrInvalidInput)
}
