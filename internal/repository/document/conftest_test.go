package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/esbridge/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexDocumentFn  func(ctx context.Context, index, id string, fields map[string]any, opts db.WriteOptions) (*db.WriteResult, error)
	bulkFn           func(ctx context.Context, index string, items []db.BulkItem, refresh string) ([]db.BulkItemResult, error)
	getDocumentFn    func(ctx context.Context, index, id string) (*db.StoredDocument, error)
	updateDocumentFn func(ctx context.Context, index, id string, partial map[string]any, opts db.WriteOptions) (*db.WriteResult, error)
	deleteDocumentFn func(ctx context.Context, index, id string, opts db.WriteOptions) (*db.WriteResult, error)
}

func (m *mockStore) IndexDocument(
	ctx context.Context, index, id string, fields map[string]any, opts db.WriteOptions,
) (*db.WriteResult, error) {
	if m.indexDocumentFn != nil {
		return m.indexDocumentFn(ctx, index, id, fields, opts)
	}
	return &db.WriteResult{Index: index, ID: id, Version: 1, Result: "created"}, nil
}

func (m *mockStore) Bulk(
	ctx context.Context, index string, items []db.BulkItem, refresh string,
) ([]db.BulkItemResult, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, items, refresh)
	}
	out := make([]db.BulkItemResult, len(items))
	for i, it := range items {
		out[i] = db.BulkItemResult{ID: it.ID, Status: 201, Version: 1, Result: "created"}
	}
	return out, nil
}

func (m *mockStore) GetDocument(ctx context.Context, index, id string) (*db.StoredDocument, error) {
	if m.getDocumentFn != nil {
		return m.getDocumentFn(ctx, index, id)
	}
	return nil, db.ErrDocumentNotFound
}

func (m *mockStore) UpdateDocument(
	ctx context.Context, index, id string, partial map[string]any, opts db.WriteOptions,
) (*db.WriteResult, error) {
	if m.updateDocumentFn != nil {
		return m.updateDocumentFn(ctx, index, id, partial, opts)
	}
	return &db.WriteResult{Index: index, ID: id, Version: 2, Result: "updated"}, nil
}

func (m *mockStore) DeleteDocument(ctx context.Context, index, id string, opts db.WriteOptions) (*db.WriteResult, error) {
	if m.deleteDocumentFn != nil {
		return m.deleteDocumentFn(ctx, index, id, opts)
	}
	return &db.WriteResult{Index: index, ID: id, Version: 2, Result: "deleted"}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
