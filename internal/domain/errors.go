package domain

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	ErrUnauthenticated      = errors.New("not logged in")
	ErrAlreadyAuthenticated = errors.New("already logged in")
	ErrSessionExpired       = errors.New("session expired")
)

// Controller errors.
var (
	ErrNotLoaded        = errors.New("list is not loaded")
	ErrSuperseded       = errors.New("list request superseded by a newer one")
	ErrActionNotAllowed = errors.New("action not allowed for record status")
	ErrNotFound         = errors.New("record not found")
)

// Client errors.
var (
	ErrUnknownAction = errors.New("unknown action")
)

// TransportError means no response was received: network failure, timeout
// or cancellation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response, or a 2xx list response that reported
// success=false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// DecodeError means the response body did not have the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConflictError rejects a mutation for a record that already has one in
// flight. It never reaches the network.
type ConflictError struct {
	RecordID string
	Action   ActionKind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("an action is already in progress for %s", e.RecordID)
}

// ValidationError rejects a payload before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Message returns the most user-presentable text for err: the server's own
// message for ServerError, the plain error text otherwise.
func Message(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
