package models

import "fmt"

// ErrorKind classifies why a dispatch ended in PhaseFailed.
type ErrorKind string

const (
	ErrorKindValidation      ErrorKind = "validation"
	ErrorKindTransport       ErrorKind = "transport"
	ErrorKindHTTP            ErrorKind = "http"
	ErrorKindDecode          ErrorKind = "decode"
	ErrorKindUnknownEndpoint ErrorKind = "unknown_endpoint"
	ErrorKindInternal        ErrorKind = "internal"
)

// FallbackErrorMessage is shown when a failed response carries no readable detail.
const FallbackErrorMessage = "API Error"

// DispatchError is a failure normalized for display. Message is what the user sees.
type DispatchError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a missing local field.
func NewValidationError(message string) *DispatchError {
	return &DispatchError{Kind: ErrorKindValidation, Message: message}
}

// NewTransportError reports that the service could not be reached.
func NewTransportError(err error) *DispatchError {
	return &DispatchError{Kind: ErrorKindTransport, Message: err.Error(), Err: err}
}

// NewHTTPError reports a non-2xx response with its extracted detail.
func NewHTTPError(status int, detail string) *DispatchError {
	return &DispatchError{Kind: ErrorKindHTTP, Status: status, Message: detail}
}

// NewDecodeError reports a 2xx response whose body was not valid JSON.
func NewDecodeError(status int, err error) *DispatchError {
	return &DispatchError{
		Kind:    ErrorKindDecode,
		Status:  status,
		Message: fmt.Sprintf("invalid JSON in response: %v", err),
		Err:     err,
	}
}
