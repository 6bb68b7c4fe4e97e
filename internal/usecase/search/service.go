package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/esbridge/internal/domain"
	"github.com/kailas-cloud/esbridge/internal/domain/search/query"
	"github.com/kailas-cloud/esbridge/internal/domain/search/request"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
)

// Fields of the user index the tutorial queries target.
const (
	EmailField = "email"
	NameField  = "name"
	AgeField   = "age"
)

// Options controls paging and the legacy mapping type of a search.
type Options struct {
	From int
	Size int // 0 = default page size
	Type string
}

// Constraints are extra exact-match requirements for Bool.
type Constraints struct {
	Name string // empty = unconstrained
	Age  *int   // nil = unconstrained
}

// Service builds queries and runs them against the engine.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo, defaultPageSize: request.DefaultSize, maxPageSize: 100}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Match runs a full-text match of terms against field.
func (s *Service) Match(ctx context.Context, index, field, terms string, opts Options) (result.Result, error) {
	q, err := query.NewMatch(field, terms)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.Query(ctx, []string{index}, q, opts)
}

// MatchResults runs Match and returns only the hits.
func (s *Service) MatchResults(ctx context.Context, index, field, terms string, opts Options) ([]result.Hit, error) {
	res, err := s.Match(ctx, index, field, terms, opts)
	if err != nil {
		return nil, err
	}
	return result.Project(res), nil
}

// Bool requires terms to match the email and applies each constraint as an
// additional must clause. A name equal to terms boosts the score.
func (s *Service) Bool(
	ctx context.Context, index, terms string, c Constraints, opts Options,
) (result.Result, error) {
	q, err := UserQuery(terms, c)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.Query(ctx, []string{index}, q, opts)
}

// UserQuery builds the bool query used by Bool.
func UserQuery(terms string, c Constraints) (query.Query, error) {
	match, err := query.NewMatch(EmailField, terms)
	if err != nil {
		return query.Query{}, err
	}
	must := []query.Query{match}

	if c.Name != "" {
		name, err := query.NewTerm(NameField, c.Name)
		if err != nil {
			return query.Query{}, err
		}
		must = append(must, name)
	}
	if c.Age != nil {
		age, err := query.NewTerm(AgeField, *c.Age)
		if err != nil {
			return query.Query{}, err
		}
		must = append(must, age)
	}

	boost, err := query.NewTerm(NameField, terms)
	if err != nil {
		return query.Query{}, err
	}
	return query.NewBool(must, []query.Query{boost}, nil, nil)
}

// Query runs q against indices. Size is clamped to the configured page limits.
func (s *Service) Query(ctx context.Context, indices []string, q query.Query, opts Options) (result.Result, error) {
	size := opts.Size
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	req, err := request.New(indices, q, opts.From, size, opts.Type)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	res, err := s.repo.Search(ctx, &req)
	if err != nil {
		return result.Result{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}
