package statement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat marks a file kind the sniffer does not recognize.
	// Fatal for the file, surfaced immediately.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrDecodeFailure marks a file that is present but unreadable or corrupt.
	// Fatal for the file, never produces partial records.
	ErrDecodeFailure = errors.New("file could not be decoded")

	// ErrNoTransactions is the distinguished empty-but-valid outcome after
	// every strategy has been exhausted. Callers receive it alongside a
	// well-formed report, not instead of one.
	ErrNoTransactions = errors.New("no transactions could be extracted")

	// ErrServiceUnavailable marks the optional AI collaborator as
	// unreachable or misconfigured. The pipeline downgrades it to
	// ErrNoTransactions; it never escapes the service layer.
	ErrServiceUnavailable = errors.New("document extraction service unavailable")
)

// UnsupportedFormatError carries the offending extension for diagnostics.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file format: no extension and unrecognized content"
	}
	return fmt.Sprintf("unsupported file format: %q", e.Extension)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// DecodeError wraps the underlying decoder failure for a readable file.
type DecodeError struct {
	Kind string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return ErrDecodeFailure }
