package models

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error kinds the core raises. Kinds, not type
// names: callers switch on Kind, never on the concrete Go type.
type Kind string

const (
	// Validation
	KindInvalidAgentID   Kind = "invalidAgentID"
	KindInvalidSessionID Kind = "invalidSessionID"
	KindInvalidPayload   Kind = "invalidPayload"
	KindInvalidModel     Kind = "invalidModel"
	KindInvalidTool      Kind = "invalidTool"

	// Missing entity
	KindAgentNotFound   Kind = "agentNotFound"
	KindSessionNotFound Kind = "sessionNotFound"
	KindLinkNotFound    Kind = "linkNotFound"
	KindProcessNotFound Kind = "processNotFound"

	// Conflict
	KindAlreadyExists       Kind = "alreadyExists"
	KindProcessLimitReached Kind = "processLimitReached"
	KindSessionBusy         Kind = "session_busy"

	// Authorization
	KindToolForbidden  Kind = "tool_forbidden"
	KindCommandBlocked Kind = "command_blocked"
	KindPathNotAllowed Kind = "path_not_allowed"
	KindCwdNotAllowed  Kind = "cwd_not_allowed"

	// Runtime
	KindReadFailed          Kind = "read_failed"
	KindWriteFailed         Kind = "write_failed"
	KindEditFailed          Kind = "edit_failed"
	KindExecFailed          Kind = "exec_failed"
	KindLaunchFailed        Kind = "launch_failed"
	KindStorageFailure      Kind = "storageFailure"
	KindSessionWriteFailed  Kind = "session_write_failed"
)

// Error is the core's single error type. Retryability is carried on the
// value, never implied by Kind alone.
type Error struct {
	Kind      Kind
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a non-retryable Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a non-retryable Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithRetryable returns a copy of the error marked retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	cp := *e
	cp.Retryable = retryable
	return &cp
}

// KindOf extracts the Kind from an error, if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
