package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/esbridge/internal/domain"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	"github.com/kailas-cloud/esbridge/internal/domain/document/patch"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

// UpdatedEmail is the address the first user's document is rewritten to.
const UpdatedEmail = "new@email.com"

// Service handles single-document CRUD.
type Service struct {
	repo  Repository
	users UserSource
	index string
}

// New creates a document service. index is the user index.
func New(repo Repository, users UserSource, index string) *Service {
	return &Service{repo: repo, users: users, index: index}
}

// Index writes a full document. An empty id lets the engine generate one.
func (s *Service) Index(
	ctx context.Context, index, id string, fields map[string]any, opts domdoc.WriteOptions,
) (domdoc.Ack, error) {
	doc, err := domdoc.New(index, id, fields)
	if err != nil {
		return domdoc.Ack{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if err := validateOptions(opts); err != nil {
		return domdoc.Ack{}, err
	}

	ack, err := s.repo.Index(ctx, doc, opts)
	if err != nil {
		return domdoc.Ack{}, fmt.Errorf("index document: %w", err)
	}
	return ack, nil
}

// Get retrieves a document by index and id.
func (s *Service) Get(ctx context.Context, index, id string) (domdoc.Document, error) {
	if err := validateRef(index, id); err != nil {
		return domdoc.Document{}, err
	}

	doc, err := s.repo.Get(ctx, index, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Update merges fields into an existing document.
func (s *Service) Update(
	ctx context.Context, index, id string, fields map[string]any, opts domdoc.WriteOptions,
) (domdoc.Ack, error) {
	if err := validateRef(index, id); err != nil {
		return domdoc.Ack{}, err
	}
	if err := validateOptions(opts); err != nil {
		return domdoc.Ack{}, err
	}
	p, err := patch.New(fields)
	if err != nil {
		return domdoc.Ack{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	ack, err := s.repo.Update(ctx, index, id, p, opts)
	if err != nil {
		return domdoc.Ack{}, fmt.Errorf("update document: %w", err)
	}
	return ack, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, index, id string, opts domdoc.WriteOptions) (domdoc.Ack, error) {
	if err := validateRef(index, id); err != nil {
		return domdoc.Ack{}, err
	}
	if err := validateOptions(opts); err != nil {
		return domdoc.Ack{}, err
	}

	ack, err := s.repo.Delete(ctx, index, id, opts)
	if err != nil {
		return domdoc.Ack{}, fmt.Errorf("delete document: %w", err)
	}
	return ack, nil
}

// IndexFirstUser indexes the first user's email under the user's id.
func (s *Service) IndexFirstUser(ctx context.Context) (domdoc.Ack, error) {
	rec, err := s.firstUser(ctx)
	if err != nil {
		return domdoc.Ack{}, err
	}
	return s.Index(ctx, s.index, rec.DocumentID(), rec.DocumentFields(), domdoc.WriteOptions{})
}

// GetFirstUser returns the first user's document.
func (s *Service) GetFirstUser(ctx context.Context) (domdoc.Document, error) {
	rec, err := s.firstUser(ctx)
	if err != nil {
		return domdoc.Document{}, err
	}
	return s.Get(ctx, s.index, rec.DocumentID())
}

// UpdateFirstUser overwrites the email and merges the name into the first user's document.
func (s *Service) UpdateFirstUser(ctx context.Context) (domdoc.Ack, error) {
	rec, err := s.firstUser(ctx)
	if err != nil {
		return domdoc.Ack{}, err
	}
	return s.Update(ctx, s.index, rec.DocumentID(), map[string]any{
		"email": UpdatedEmail,
		"name":  rec.Name,
	}, domdoc.WriteOptions{})
}

// DeleteFirstUser removes the first user's document.
func (s *Service) DeleteFirstUser(ctx context.Context) (domdoc.Ack, error) {
	rec, err := s.firstUser(ctx)
	if err != nil {
		return domdoc.Ack{}, err
	}
	return s.Delete(ctx, s.index, rec.DocumentID(), domdoc.WriteOptions{})
}

func (s *Service) firstUser(ctx context.Context) (domuser.Record, error) {
	if s.users == nil {
		return domuser.Record{}, fmt.Errorf("user store not configured: %w", domain.ErrNoRecords)
	}
	rec, err := s.users.FetchOne(ctx)
	if err != nil {
		return domuser.Record{}, fmt.Errorf("fetch first user: %w", err)
	}
	return rec, nil
}

func validateOptions(opts domdoc.WriteOptions) error {
	if !domdoc.ValidateRefresh(opts.Refresh) {
		return fmt.Errorf("%w: invalid refresh %q", domain.ErrInvalidRequest, opts.Refresh)
	}
	return nil
}

func validateRef(index, id string) error {
	if _, err := domdoc.New(index, id, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if id == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidRequest)
	}
	return nil
}
