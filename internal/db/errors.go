package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend operations.
var (
	ErrIndexNotFound    = errors.New("db: index not found")
	ErrIndexExists      = errors.New("db: index already exists")
	ErrDocumentNotFound = errors.New("db: document not found")
	ErrConflictingType  = errors.New("db: conflicting field type")
	ErrVersionConflict  = errors.New("db: version conflict")
	ErrConnection       = errors.New("db: connection failed")
	ErrBadRequest       = errors.New("db: bad request")
)

// Op constants name backend calls for error context and metrics labels.
const (
	OpPing        = "ping"
	OpCreateIndex = "indices.create"
	OpIndexExists = "indices.exists"
	OpGetSettings = "indices.get_settings"
	OpGetMapping  = "indices.get_mapping"
	OpDeleteIndex = "indices.delete"
	OpPutMapping  = "indices.put_mapping"
	OpIndex       = "index"
	OpBulk        = "bulk"
	OpGet         = "get"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpSearch      = "search"

	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpScan    = "SCAN"
	OpUnlink  = "UNLINK"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// EngineError is an error reported by the search engine in its response body.
// It unwraps to the sentinel matching its type, if any.
type EngineError struct {
	Status int
	Type   string
	Reason string
	kind   error
}

// NewEngineError creates an EngineError classified under kind (may be nil).
func NewEngineError(status int, typ, reason string, kind error) *EngineError {
	return &EngineError{Status: status, Type: typ, Reason: reason, kind: kind}
}

func (e *EngineError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("engine error [%d] %s", e.Status, e.Type)
	}
	return fmt.Sprintf("engine error [%d] %s: %s", e.Status, e.Type, e.Reason)
}

func (e *EngineError) Unwrap() error { return e.kind }
