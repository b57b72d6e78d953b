package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate signals a uniqueness violation on the quiz title.
	ErrDuplicate = errors.New("a quiz already exists with this title")
	// ErrNotFound signals a missing quiz, slide or image.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals that a whole-document rewrite lost a version race.
	ErrConflict = errors.New("quiz was modified by another request")
)

// ImageDeletionError wraps any object-store failure hit during image
// reconciliation (listing, deletion or upload).
type ImageDeletionError struct {
	Op  string
	Err error
}

func (e *ImageDeletionError) Error() string {
	return fmt.Sprintf("image reconciliation failed during %s: %v", e.Op, e.Err)
}

func (e *ImageDeletionError) Unwrap() error { return e.Err }
