package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing index.
	ErrNotFound = errors.New("index not found")
	// ErrAlreadyExists signals a duplicate index.
	ErrAlreadyExists = errors.New("index already exists")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrConflictingType signals a mapping field redeclared with another type.
	ErrConflictingType = errors.New("conflicting field type")
	// ErrVersionConflict signals an optimistic concurrency collision on write.
	ErrVersionConflict = errors.New("version conflict")
	// ErrConnection signals that the search engine could not be reached.
	ErrConnection = errors.New("search engine unreachable")
	// ErrInvalidRequest signals a request rejected before or by the engine.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoRecords signals an empty user record store.
	ErrNoRecords = errors.New("no user records")
)

// VersionConflictError wraps ErrVersionConflict with the write that lost.
type VersionConflictError struct {
	Index  string
	ID     string
	Reason string
}

func (e *VersionConflictError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s/%s", ErrVersionConflict.Error(), e.Index, e.ID)
	}
	return fmt.Sprintf("%s: %s/%s: %s", ErrVersionConflict.Error(), e.Index, e.ID, e.Reason)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// NewVersionConflict creates a version conflict error.
func NewVersionConflict(index, id, reason string) error {
	return &VersionConflictError{Index: index, ID: id, Reason: reason}
}
