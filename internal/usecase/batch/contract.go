package batch

import (
	"context"

	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

// Repository indexes documents in one bulk request. Result positions refer
// to the docs slice.
type Repository interface {
	Bulk(ctx context.Context, index string, docs []domdoc.Document, refresh string) ([]dombatch.Result, error)
}

// UserSource reads every user record.
type UserSource interface {
	FetchAll(ctx context.Context) ([]domuser.Record, error)
}
