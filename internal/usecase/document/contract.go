package document

import (
	"context"

	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	"github.com/kailas-cloud/esbridge/internal/domain/document/patch"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Index(ctx context.Context, doc domdoc.Document, opts domdoc.WriteOptions) (domdoc.Ack, error)
	Get(ctx context.Context, index, id string) (domdoc.Document, error)
	Update(ctx context.Context, index, id string, p patch.Patch, opts domdoc.WriteOptions) (domdoc.Ack, error)
	Delete(ctx context.Context, index, id string, opts domdoc.WriteOptions) (domdoc.Ack, error)
}

// UserSource reads the first user record.
type UserSource interface {
	FetchOne(ctx context.Context) (domuser.Record, error)
}
