// Package apperr holds the sentinel errors shared across Quill's layers.
package apperr

import "errors"

// ErrNotFound is returned when an operation references a note id that is
// not in the store.
var ErrNotFound = errors.New("not found")
