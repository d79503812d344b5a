package storage

import "errors"

var (
	// ErrNotFound indicates no archive entry exists for the document.
	ErrNotFound = errors.New("archive entry not found")
	// ErrEmptyKey indicates an empty document ID was provided.
	ErrEmptyKey = errors.New("document id must not be empty")
	// ErrInvalidKey indicates the document ID contains a path segment.
	ErrInvalidKey = errors.New("document id contains invalid path segment")
)
