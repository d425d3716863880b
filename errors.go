package drivestorage

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrFileNotFound         = errors.New("file not found")
	ErrAuthRecoverable      = errors.New("authorization required")
	ErrUninitializedAccount = errors.New("uninitialized account")
	ErrRemote               = errors.New("remote error")
	ErrIOError              = errors.New("io error")
)

// Causes of ErrFileNotFound. A not-found error always wraps ErrFileNotFound and exactly one of these.
var (
	ErrMissingID      = errors.New("missing id")
	ErrParentMismatch = errors.New("parent mismatch")
	ErrNameMismatch   = errors.New("name mismatch")
	ErrRemoteNotFound = errors.New("remote not found")
	ErrTrashed        = errors.New("trashed")
)

var errNotVerifiedPath = errors.New("path not verified")

type wrapError struct {
	underlying []error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

func newNotFoundError(subCause error, msg string, cause error) error {
	return &wrapError{
		underlying: []error{ErrFileNotFound, subCause},
		msg:        msg,
		cause:      cause,
	}
}

func newAuthError(msg string, cause error) error {
	return &wrapError{
		underlying: []error{ErrAuthRecoverable},
		msg:        msg,
		cause:      cause,
	}
}

func newRemoteError(msg string, cause error) error {
	return &wrapError{
		underlying: []error{ErrRemote},
		msg:        msg,
		cause:      cause,
	}
}

func newIOError(msg string, cause error) error {
	return &wrapError{
		underlying: []error{ErrIOError},
		msg:        msg,
		cause:      cause,
	}
}

func newInvalidPathError(msg string) error {
	return &wrapError{
		underlying: []error{ErrInvalidPath},
		msg:        msg,
	}
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	parts := make([]string, 0, len(err.underlying)+2)
	for _, u := range err.underlying {
		parts = append(parts, u.Error())
	}
	if err.msg != "" {
		parts = append(parts, err.msg)
	}
	if err.cause != nil {
		parts = append(parts, err.cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return err.underlying
	}
	return append(append([]error{}, err.underlying...), err.cause)
}

// verificationError is the internal result of a failed walk. It never leaves the resolver.
type verificationError struct {
	cause error
	msg   string
}

func (err *verificationError) Error() string {
	return errNotVerifiedPath.Error() + ": " + err.cause.Error() + ": " + err.msg
}

func (err *verificationError) Unwrap() []error {
	return []error{errNotVerifiedPath, err.cause}
}
