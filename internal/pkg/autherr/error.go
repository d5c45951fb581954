// internal/pkg/autherr/error.go
package autherr

import (
	"errors"
	"fmt"
)

// Error is the typed error raised by codecs, providers and filters. It
// carries the taxonomy kind used for handler resolution, a message key
// resolved against the locale catalogs, and optional per-field details
// echoed to the client.
type Error struct {
	kind    *Kind
	key     string
	details map[string]string
	cause   error
}

func (e *Error) Kind() *Kind                { return e.kind }
func (e *Error) MessageKey() string         { return e.key }
func (e *Error) Details() map[string]string { return e.details }
func (e *Error) Unwrap() error              { return e.cause }

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.key, e.kind.Name(), e.cause)
	}
	return fmt.Sprintf("%s (%s)", e.key, e.kind.Name())
}

// New builds an Error of the given kind.
func New(kind *Kind, key string) *Error {
	return &Error{kind: kind, key: key}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind *Kind, key string, cause error) *Error {
	return &Error{kind: kind, key: key, cause: cause}
}

// WithDetail attaches a field detail and returns the error for chaining.
func (e *Error) WithDetail(field, value string) *Error {
	if e.details == nil {
		e.details = make(map[string]string, 2)
	}
	e.details[field] = value
	return e
}

// ========== Constructors per taxonomy kind ==========

func BadRequest(key string) *Error {
	return New(KindBadRequestInput, key)
}

func InvalidCredentials(key string) *Error {
	return New(KindInvalidCredentials, key)
}

func Untrustworthy(key string, cause error) *Error {
	return Wrap(KindTokenUntrustworthy, key, cause)
}

func SessionExpired(key string, cause error) *Error {
	return Wrap(KindSessionExpired, key, cause)
}

func CodeExpired(cause error) *Error {
	return Wrap(KindCodeExpired, "code.expired", cause)
}

func Forbidden(key string) *Error {
	return New(KindForbidden, key)
}

func Internal(key string, cause error) *Error {
	return Wrap(KindInternal, key, cause)
}

// Classify returns err's *Error if it is one anywhere on its chain;
// otherwise it wraps err as an internal error so no collaborator's native
// error type ever crosses the authentication boundary.
func Classify(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal.error", err)
}

// KindOf is a test and assertion helper returning the resolved kind of err.
func KindOf(err error) *Kind {
	return Classify(err).Kind()
}
