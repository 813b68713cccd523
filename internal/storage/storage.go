package storage

import "errors"

// ErrNoteNotFound covers both a missing note and a note owned by another
// user, so callers cannot tell the two apart.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)
