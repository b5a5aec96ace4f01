package gguf

import (
	"errors"
	"fmt"
)

// Decode failures fall into two classes. ErrData marks content that was read
// successfully but is semantically invalid (bad magic or version, unknown type
// tag, invalid UTF-8, invalid boolean byte, duplicate key). Everything else
// coming out of a decode is the unexpected class: short reads and I/O failures,
// wrapped around ErrUnexpected. Classify with errors.Is; a failed decode never
// returns a partial Header.
var (
	ErrData       = errors.New("gguf: invalid data")
	ErrUnexpected = errors.New("gguf: unexpected failure")

	// ErrKeyNotFound is the data error reported when a required metadata key
	// (such as general.architecture) is missing. Optional keys that are
	// simply absent are not an error; see Header.Lookup.
	ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrData)
)

// IsDataError reports whether err is the semantically-invalid-content class
func IsDataError(err error) bool {
	return errors.Is(err, ErrData)
}
