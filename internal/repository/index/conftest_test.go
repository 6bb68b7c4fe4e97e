package index

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/esbridge/internal/db"
	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	getSettingsFn func(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	getMappingFn  func(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	deleteIndexFn func(ctx context.Context, names ...string) error
	putMappingFn  func(ctx context.Context, name string, fields []db.IndexField) error
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) GetSettings(ctx context.Context, names ...string) (map[string]json.RawMessage, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(ctx, names...)
	}
	return map[string]json.RawMessage{}, nil
}

func (m *mockStore) GetMapping(ctx context.Context, names ...string) (map[string]json.RawMessage, error) {
	if m.getMappingFn != nil {
		return m.getMappingFn(ctx, names...)
	}
	return map[string]json.RawMessage{}, nil
}

func (m *mockStore) DeleteIndex(ctx context.Context, names ...string) error {
	if m.deleteIndexFn != nil {
		return m.deleteIndexFn(ctx, names...)
	}
	return nil
}

func (m *mockStore) PutMapping(ctx context.Context, name string, fields []db.IndexField) error {
	if m.putMappingFn != nil {
		return m.putMappingFn(ctx, name, fields)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testDefinition(t *testing.T) domidx.Definition {
	t.Helper()
	def, err := domidx.New("custom-users", []field.Field{
		field.Reconstruct("name", field.Keyword),
		field.Reconstruct("email", field.Text),
	})
	if err != nil {
		t.Fatalf("domidx.New: %v", err)
	}
	return def
}
