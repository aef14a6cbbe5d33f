package index

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every LookupError.
var ErrNotFound = errors.New("identifier not found")

// LookupError reports an identifier that one record references but no
// index contains.
type LookupError struct {
	// Index names the index that was searched, e.g. "starships".
	Index string
	// Key is the missing identifier.
	Key string
	// Referrer is the identifier of the record holding the reference.
	Referrer string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("%s index: %s (referenced by %s): %v", e.Index, e.Key, e.Referrer, ErrNotFound)
	}
	return fmt.Sprintf("%s index: %s: %v", e.Index, e.Key, ErrNotFound)
}

// Unwrap implements error unwrapping for errors.Is.
func (e *LookupError) Unwrap() error {
	return ErrNotFound
}
