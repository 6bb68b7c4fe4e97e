package batch

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/domain"
	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

// MaxBatchSize is the default maximum number of items per bulk request.
const MaxBatchSize = 1000

// Item is one document of a bulk submission. An empty ID lets the engine generate one.
type Item struct {
	ID     string
	Fields map[string]any
}

// Service handles bulk indexing with per-item error reporting.
type Service struct {
	repo         Repository
	users        UserSource
	index        string
	maxBatchSize int
}

// New creates a batch service. index is the user index.
func New(repo Repository, users UserSource, index string) *Service {
	return &Service{repo: repo, users: users, index: index, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// IndexUsers indexes every user record into the user index. Records are sent
// in bulk requests of at most the configured batch size, one after another;
// result positions refer to the full record list.
func (s *Service) IndexUsers(ctx context.Context) ([]dombatch.Result, error) {
	if s.users == nil {
		return nil, fmt.Errorf("user store not configured: %w", domain.ErrNoRecords)
	}
	records, err := s.users.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	items := lo.Map(records, func(r domuser.Record, _ int) Item {
		return Item{ID: r.DocumentID(), Fields: r.DocumentFields()}
	})

	results := make([]dombatch.Result, 0, len(items))
	for _, chunk := range lo.Chunk(items, s.maxBatchSize) {
		results = append(results, s.send(ctx, s.index, chunk, len(results), "")...)
	}
	return results, nil
}

// Index validates items, sends the valid ones in one bulk request, and
// returns one result per item in submission order. A submission above the
// maximum batch size is rejected as a whole.
func (s *Service) Index(ctx context.Context, index string, items []Item, refresh string) []dombatch.Result {
	reject := func(err error) []dombatch.Result {
		return lo.Map(items, func(item Item, i int) dombatch.Result {
			return dombatch.NewError(i, item.ID, err)
		})
	}

	if len(items) > s.maxBatchSize {
		return reject(fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest))
	}
	if !domdoc.ValidateRefresh(refresh) {
		return reject(fmt.Errorf("%w: invalid refresh %q", domain.ErrInvalidRequest, refresh))
	}
	return s.send(ctx, index, items, 0, refresh)
}

// send runs one bulk request for items. Positions start at offset.
func (s *Service) send(
	ctx context.Context, index string, items []Item, offset int, refresh string,
) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	valid := make([]domdoc.Document, 0, len(items))
	validIdx := make([]int, 0, len(items))

	for i, item := range items {
		doc, err := domdoc.New(index, item.ID, item.Fields)
		if err != nil {
			results[i] = dombatch.NewError(offset+i, item.ID, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
			continue
		}
		valid = append(valid, doc)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return results
	}

	sent, err := s.repo.Bulk(ctx, index, valid, refresh)
	if err == nil && len(sent) != len(valid) {
		err = fmt.Errorf("bulk returned %d results for %d items", len(sent), len(valid))
	}
	if err != nil {
		for _, i := range validIdx {
			results[i] = dombatch.NewError(offset+i, items[i].ID, fmt.Errorf("bulk: %w", err))
		}
		return results
	}

	for j, i := range validIdx {
		results[i] = sent[j].At(offset + i)
	}
	return results
}
