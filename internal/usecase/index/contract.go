package index

import (
	"context"

	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
)

// Repository defines the storage contract for index management.
type Repository interface {
	Create(ctx context.Context, def domidx.Definition) error
	Exists(ctx context.Context, name string) (bool, error)
	Describe(ctx context.Context, names []string) ([]domidx.Info, error)
	Delete(ctx context.Context, names []string) error
	AddFields(ctx context.Context, name string, fields []field.Field) error
}
