package search

import (
	"context"

	"github.com/kailas-cloud/esbridge/internal/domain/search/request"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}
