// Package api keeps per-feature caches in sync with the server. Every merger
// follows the same shape: one request in flight per key, the cache is
// replaced only after the server confirmed, and a change event fires only
// when the new value differs from the old one.
package api

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/tl"
)

// ErrNoMessage is returned when an operation names a message the store does
// not hold.
var ErrNoMessage = errors.New("api: message not found")

// ErrNotSupported is returned when the peer kind cannot be used with the
// operation, for example toggling the username of a user that is not self.
var ErrNotSupported = errors.New("api: not supported for this peer")

type ChatLinkErrorKind int

const (
	ChatLinkUnknown ChatLinkErrorKind = iota
	// ChatLinkChanged means the server answered an edit with another link.
	ChatLinkChanged
	// ChatLinkNotFound means the server confirmed an edit of a link the
	// local list does not have.
	ChatLinkNotFound
)

type ChatLinkError struct {
	Kind  ChatLinkErrorKind
	Cause *tl.Error
}

func (e *ChatLinkError) Error() string {
	switch e.Kind {
	case ChatLinkChanged:
		return "chat link: link changed"
	case ChatLinkNotFound:
		return "chat link: not found"
	}
	return fmt.Sprintf("chat link: %v", e.Cause)
}

func (e *ChatLinkError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

type PasswordErrorKind int

const (
	PasswordUnknown PasswordErrorKind = iota
	PasswordEmailUnconfirmed
	PasswordInvalid
	PasswordFlood
)

type PasswordError struct {
	Kind PasswordErrorKind
	// CodeLength is the length of the code sent to the unconfirmed email.
	CodeLength int
	// RetryAfter is set for flood errors when the server said how long to
	// wait.
	RetryAfter int
	Cause      *tl.Error
}

func (e *PasswordError) Error() string {
	switch e.Kind {
	case PasswordEmailUnconfirmed:
		return fmt.Sprintf("password: email unconfirmed, code length %d", e.CodeLength)
	case PasswordInvalid:
		return "password: invalid"
	case PasswordFlood:
		return fmt.Sprintf("password: flood, retry after %ds", e.RetryAfter)
	}
	return fmt.Sprintf("password: %v", e.Cause)
}

func (e *PasswordError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

type UsernameErrorKind int

const (
	UsernameUnknown UsernameErrorKind = iota
	UsernameTooMuch
)

type UsernameError struct {
	Kind  UsernameErrorKind
	Cause *tl.Error
}

func (e *UsernameError) Error() string {
	if e.Kind == UsernameTooMuch {
		return "username: too many active usernames"
	}
	return fmt.Sprintf("username: %v", e.Cause)
}

func (e *UsernameError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// asError turns a remote failure into a plain error value. A nil *tl.Error
// must not leak as a non-nil error interface.
func asError(e *tl.Error) error {
	if e == nil {
		return nil
	}
	return e
}

func fired(merger string) {
	metrics.MergerEvents.WithLabelValues(merger).Inc()
}
