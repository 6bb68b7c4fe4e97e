// Package engineerr maps backend sentinels to domain sentinels.
package engineerr

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/domain"
)

var mapping = []struct {
	from, to error
}{
	{db.ErrIndexNotFound, domain.ErrNotFound},
	{db.ErrIndexExists, domain.ErrAlreadyExists},
	{db.ErrDocumentNotFound, domain.ErrDocumentNotFound},
	{db.ErrConflictingType, domain.ErrConflictingType},
	{db.ErrVersionConflict, domain.ErrVersionConflict},
	{db.ErrConnection, domain.ErrConnection},
	{db.ErrBadRequest, domain.ErrInvalidRequest},
}

// Translate wraps err with the matching domain sentinel, keeping the original chain.
// Errors without a match are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range mapping {
		if errors.Is(err, m.from) {
			return fmt.Errorf("%w: %w", m.to, err)
		}
	}
	return err
}

// Reason returns the engine-reported reason if err carries one.
func Reason(err error) string {
	var ee *db.EngineError
	if errors.As(err, &ee) {
		return ee.Reason
	}
	return ""
}
