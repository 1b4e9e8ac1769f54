package download

import (
	"errors"
	"fmt"

	sochttp "github.com/handiism/socrata-downloader/internal/http"
)

// ErrorKind classifies a failed download.
type ErrorKind int

const (
	// NetworkError covers connection failures, timeouts, broken response
	// bodies and cancellation.
	NetworkError ErrorKind = iota

	// HTTPStatusError means the server answered with a non-2xx status.
	HTTPStatusError

	// IOError means the destination file could not be created or written.
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case HTTPStatusError:
		return "http_status_error"
	case IOError:
		return "io_error"
	default:
		return "network_error"
	}
}

// Error is the error carried by a failed model.Result.
type Error struct {
	Kind ErrorKind

	// StatusCode is set for HTTPStatusError.
	StatusCode int

	Err error
}

func (e *Error) Error() string {
	if e.Kind == HTTPStatusError {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err into an *Error of the matching kind. Anything that is
// neither a status nor a file error happened on the wire.
func classify(err error) *Error {
	var statusErr *sochttp.StatusError
	if errors.As(err, &statusErr) {
		return &Error{Kind: HTTPStatusError, StatusCode: statusErr.StatusCode, Err: err}
	}

	var fileErr *sochttp.FileError
	if errors.As(err, &fileErr) {
		return &Error{Kind: IOError, Err: err}
	}

	return &Error{Kind: NetworkError, Err: err}
}

// KindOf returns the ErrorKind of err and whether err carries one.
func KindOf(err error) (ErrorKind, bool) {
	var dlErr *Error
	if errors.As(err, &dlErr) {
		return dlErr.Kind, true
	}
	return 0, false
}
