package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/esbridge/internal/domain"
	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
)

// DefaultName is the index the tutorial routes operate on.
const DefaultName = "custom-users"

// Service manages index lifecycle and mappings.
type Service struct {
	repo         Repository
	defaultIndex string
}

// New creates an index service bound to the default index name.
func New(repo Repository, defaultIndex string) *Service {
	if defaultIndex == "" {
		defaultIndex = DefaultName
	}
	return &Service{repo: repo, defaultIndex: defaultIndex}
}

// DefaultIndex returns the name of the user index.
func (s *Service) DefaultIndex() string { return s.defaultIndex }

// UsersDefinition is the user index mapping: name as keyword, email as text.
func UsersDefinition(name string) (domidx.Definition, error) {
	return domidx.New(name, []field.Field{
		field.Reconstruct("name", field.Keyword),
		field.Reconstruct("email", field.Text),
	})
}

// CreateDefault creates the user index.
func (s *Service) CreateDefault(ctx context.Context) error {
	def, err := UsersDefinition(s.defaultIndex)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.create(ctx, def)
}

// Create validates and creates an index with the given fields.
func (s *Service) Create(ctx context.Context, name string, fields []field.Field) error {
	def, err := domidx.New(name, fields)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.create(ctx, def)
}

func (s *Service) create(ctx context.Context, def domidx.Definition) error {
	if err := s.repo.Create(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Ensure creates the user index unless it already exists.
// Returns true if the index was created.
func (s *Service) Ensure(ctx context.Context) (bool, error) {
	ok, err := s.repo.Exists(ctx, s.defaultIndex)
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	if ok {
		return false, nil
	}

	err = s.CreateDefault(ctx)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Describe returns settings and mappings of the named indices.
// No names means the user index.
func (s *Service) Describe(ctx context.Context, names ...string) ([]domidx.Info, error) {
	names, err := s.resolve(names)
	if err != nil {
		return nil, err
	}

	infos, err := s.repo.Describe(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("describe index: %w", err)
	}
	return infos, nil
}

// Delete drops the named indices. No names means the user index.
func (s *Service) Delete(ctx context.Context, names ...string) error {
	names, err := s.resolve(names)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, names); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// AddFields adds properties to the index mapping. Existing fields keep their type.
func (s *Service) AddFields(ctx context.Context, name string, fields []field.Field) error {
	if err := domidx.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", domain.ErrInvalidRequest)
	}
	if _, err := domidx.New(name, fields); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	if err := s.repo.AddFields(ctx, name, fields); err != nil {
		return fmt.Errorf("update mapping: %w", err)
	}
	return nil
}

// AddAge adds the integer age field to the user index.
func (s *Service) AddAge(ctx context.Context) error {
	return s.AddFields(ctx, s.defaultIndex, []field.Field{field.Reconstruct("age", field.Integer)})
}

func (s *Service) resolve(names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{s.defaultIndex}, nil
	}
	for _, n := range names {
		if err := domidx.ValidateName(n); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
	}
	return names, nil
}
