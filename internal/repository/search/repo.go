package search

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/domain/search/request"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
	"github.com/kailas-cloud/esbridge/internal/repository/engineerr"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs a validated request and maps the engine response to a domain result.
func (r *Repo) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Indices: req.Indices(),
		Query:   req.Query(),
		From:    req.From(),
		Size:    req.Size(),
		Type:    req.DocType(),
	})
	if err != nil {
		return result.Result{}, fmt.Errorf("search %v: %w", req.Indices(), engineerr.Translate(err))
	}

	hits := lo.Map(sr.Hits, func(h db.SearchHit, _ int) result.Hit {
		return result.NewHit(h.Index, h.ID, h.Score, h.Source)
	})
	return result.New(hits, sr.Total, sr.TotalRelation, sr.TookMs, sr.TimedOut, sr.MaxScore), nil
}
