package export

import (
	"gitlab.com/tozd/go/errors"
)

// Error kinds. Fatal kinds are returned from Run; per-file kinds are carried
// by the outcome of the candidate they concern.
var (
	ErrInvalidInput           = errors.Base("invalid input")
	ErrSourceNotFound         = errors.Base("source not found")
	ErrDestinationUnavailable = errors.Base("destination unavailable")
	ErrFileUnreadable         = errors.Base("file unreadable")
	ErrCopyFailed             = errors.Base("copy failed")

	// ErrDestinationLocked is reported with ErrDestinationUnavailable when
	// another run holds the destination.
	ErrDestinationLocked = errors.Base("destination is locked by another run")

	// ErrRenameExhausted is reported with ErrCopyFailed when no free
	// disambiguated name was found.
	ErrRenameExhausted = errors.Base("no free destination name")
)

// Error ties an error kind to the path it concerns and the underlying cause
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, cause error) error {
	return errors.WithStack(&Error{Kind: kind, Path: path, Err: cause})
}

// withKind tags err with kind unless it already carries it
func withKind(kind error, path string, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return newError(kind, path, err)
}

var kindNames = []struct {
	err  error
	name string
}{
	{ErrInvalidInput, "InvalidInput"},
	{ErrSourceNotFound, "SourceNotFound"},
	{ErrDestinationUnavailable, "DestinationUnavailable"},
	{ErrFileUnreadable, "FileUnreadable"},
	{ErrCopyFailed, "CopyFailed"},
}

// Kind returns the name of the error kind err belongs to, or "" if none
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kindNames {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
