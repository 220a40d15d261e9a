// Package apierr classifies failed API responses into a closed set of error
// kinds carrying a user-displayable message.
//
// Callers match kinds with errors.Is against the sentinel errors below and
// extract details with errors.As:
//
//	var apiErr *apierr.Error
//	if errors.As(err, &apiErr) {
//	    fmt.Println(apiErr.Message)
//	}
//	if errors.Is(err, apierr.ErrForbidden) { ... }
package apierr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthorized       Kind = "Unauthorized"
	KindRefreshRejected    Kind = "RefreshRejected"
	KindForbidden          Kind = "Forbidden"
	KindNotFound           Kind = "NotFound"
	KindConflict           Kind = "Conflict"
	KindValidationFailed   Kind = "ValidationFailed"
	KindServerError        Kind = "ServerError"
	KindNetworkUnreachable Kind = "NetworkUnreachable"
	KindUnknown            Kind = "Unknown"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRefreshRejected    = errors.New("refresh rejected")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidationFailed   = errors.New("validation failed")
	ErrServerError        = errors.New("server error")
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrUnknown            = errors.New("unknown error")
)

var sentinels = map[Kind]error{
	KindInvalidCredentials: ErrInvalidCredentials,
	KindUnauthorized:       ErrUnauthorized,
	KindRefreshRejected:    ErrRefreshRejected,
	KindForbidden:          ErrForbidden,
	KindNotFound:           ErrNotFound,
	KindConflict:           ErrConflict,
	KindValidationFailed:   ErrValidationFailed,
	KindServerError:        ErrServerError,
	KindNetworkUnreachable: ErrNetworkUnreachable,
	KindUnknown:            ErrUnknown,
}

// Error is a classified API failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Code    string
	TraceID string

	// ServerMessage is set when Message came from the response body.
	ServerMessage bool

	// Method and URL identify the failed request, when known.
	Method string
	URL    string

	// Cause is the underlying transport error for status 0 failures.
	Cause error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	if e.Method != "" || e.URL != "" {
		s = fmt.Sprintf("%s %s: %s", e.Method, e.URL, s)
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error of e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// WithKind returns a copy of e reclassified as k. The message is replaced by
// the default for k unless the server supplied its own.
func (e *Error) WithKind(k Kind) *Error {
	c := *e
	c.Kind = k
	if !c.ServerMessage {
		if msg, ok := kindMessages[k]; ok {
			c.Message = msg
		}
	}
	return &c
}

// As extracts the classified error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRecoverable reports whether err is a server-side or network failure that
// may succeed if tried again later.
func IsRecoverable(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	return e.Status >= 500 || e.Status == 0
}

// UserMessage renders err for display. With a non-empty action
// the message reads "failed to <action>: <message>".
func UserMessage(err error, action string) string {
	if err == nil {
		return ""
	}
	msg := genericMessage
	if e, ok := As(err); ok {
		msg = e.Message
	}
	if action != "" {
		return fmt.Sprintf("failed to %s: %s", action, msg)
	}
	return msg
}
