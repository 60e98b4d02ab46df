package blobfs

import (
	"os"

	"github.com/pkg/errors"
)

// Error taxonomy for the provider. Callers classify a failure by unwrapping
// to one of these sentinels; context (paths, offsets) travels in the wrapped
// message.
var (
	// ErrNotConfigured means the tenant has no registered configuration.
	ErrNotConfigured = errors.New("tenant not configured")

	// ErrNotFound means the requested container or object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest marks a protocol violation by the caller: a bad
	// offset, a missing stream id, a zero-length payload, or an identifier
	// that escapes the tenant root. Never retried internally.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrIO wraps filesystem failures: permissions, disk full, short writes.
	ErrIO = errors.New("i/o failure")
)

func IsNotConfigured(err error) bool { return errors.Cause(err) == ErrNotConfigured }

func IsNotFound(err error) bool { return errors.Cause(err) == ErrNotFound }

func IsInvalidRequest(err error) bool { return errors.Cause(err) == ErrInvalidRequest }

func IsIO(err error) bool { return errors.Cause(err) == ErrIO }

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidRequest, format, args...)
}

func iof(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIO, format, args...)
}

// classify maps a raw filesystem error onto the taxonomy, keeping the
// original error text. Missing paths become ErrNotFound, everything else
// ErrIO.
func classify(err error) error {
	if os.IsNotExist(errors.Cause(err)) {
		return errors.Wrap(ErrNotFound, err.Error())
	}
	return errors.Wrap(ErrIO, err.Error())
}
