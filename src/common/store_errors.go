package common

import (
	"errors"
	"fmt"
)

// StoreErrType classifies the failures of the peer store.
type StoreErrType uint32

const (
	// FileNotFound means there is no peer store file yet. Callers usually
	// read it as "first run".
	FileNotFound StoreErrType = iota
	// IOFailure covers every other file system error.
	IOFailure
	// DecodeFailure means the file was read but its content cannot be
	// trusted: malformed, truncated, corrupted or written in an unknown
	// format version.
	DecodeFailure
	// EncodeFailure ...
	EncodeFailure
)

// String ...
func (t StoreErrType) String() string {
	switch t {
	case FileNotFound:
		return "File Not Found"
	case IOFailure:
		return "IO Failure"
	case DecodeFailure:
		return "Decode Failure"
	case EncodeFailure:
		return "Encode Failure"
	default:
		return "Unknown"
	}
}

// StoreErr is the error returned by the peer store. It records the
// operation, the file it was operating on, and the underlying cause.
type StoreErr struct {
	op      string
	path    string
	errType StoreErrType
	cause   error
}

// NewStoreErr ...
func NewStoreErr(op string, errType StoreErrType, path string, cause error) StoreErr {
	return StoreErr{
		op:      op,
		path:    path,
		errType: errType,
		cause:   cause,
	}
}

// Error ...
func (e StoreErr) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s, %s, %s", e.op, e.path, e.errType)
	}
	return fmt.Sprintf("%s, %s, %s: %v", e.op, e.path, e.errType, e.cause)
}

// Unwrap returns the underlying cause so that errors.Is can reach sentinel
// errors such as os.ErrNotExist.
func (e StoreErr) Unwrap() error {
	return e.cause
}

// Type ...
func (e StoreErr) Type() StoreErrType {
	return e.errType
}

// IsStore checks that an error is, or wraps, a StoreErr and that its code
// matches the provided StoreErr code.
func IsStore(err error, t StoreErrType) bool {
	var storeErr StoreErr
	return errors.As(err, &storeErr) && storeErr.errType == t
}
