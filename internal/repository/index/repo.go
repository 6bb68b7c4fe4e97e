package index

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
	"github.com/kailas-cloud/esbridge/internal/repository/engineerr"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	GetSettings(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	GetMapping(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	DeleteIndex(ctx context.Context, names ...string) error
	PutMapping(ctx context.Context, name string, fields []db.IndexField) error
}

// Settings are the index-level settings applied at creation time.
type Settings struct {
	Shards   int  // 0 = engine default
	Replicas *int // nil = engine default
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store    store
	settings Settings
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// WithSettings configures shard and replica counts for new indices.
func (r *Repo) WithSettings(cfg Settings) *Repo {
	if cfg.Shards > 0 {
		r.settings.Shards = cfg.Shards
	}
	if cfg.Replicas != nil {
		r.settings.Replicas = cfg.Replicas
	}
	return r
}

// Create creates the index with its mapping.
func (r *Repo) Create(ctx context.Context, def domidx.Definition) error {
	b := db.NewIndex(def.Name()).Shards(r.settings.Shards)
	if r.settings.Replicas != nil {
		b = b.Replicas(*r.settings.Replicas)
	}
	for _, f := range def.Fields() {
		b = b.Field(f.Name(), string(f.FieldType()))
	}

	idx, err := b.Build()
	if err != nil {
		return fmt.Errorf("build index %s: %w", def.Name(), err)
	}
	if err := r.store.CreateIndex(ctx, idx); err != nil {
		return fmt.Errorf("create index %s: %w", def.Name(), engineerr.Translate(err))
	}
	return nil
}

// Exists reports whether the index is present.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", name, engineerr.Translate(err))
	}
	return ok, nil
}

// Describe returns settings and mappings for each named index, sorted by name.
func (r *Repo) Describe(ctx context.Context, names []string) ([]domidx.Info, error) {
	settings, err := r.store.GetSettings(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", engineerr.Translate(err))
	}
	mappings, err := r.store.GetMapping(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("get mapping: %w", engineerr.Translate(err))
	}

	return lo.Map(slices.Sorted(maps.Keys(settings)), func(name string, _ int) domidx.Info {
		return domidx.Info{Name: name, Settings: settings[name], Mappings: mappings[name]}
	}), nil
}

// Delete drops the named indices.
func (r *Repo) Delete(ctx context.Context, names []string) error {
	if err := r.store.DeleteIndex(ctx, names...); err != nil {
		return fmt.Errorf("delete index: %w", engineerr.Translate(err))
	}
	return nil
}

// AddFields extends the mapping of an existing index.
func (r *Repo) AddFields(ctx context.Context, name string, fields []field.Field) error {
	props := lo.Map(fields, func(f field.Field, _ int) db.IndexField {
		return db.IndexField{Name: f.Name(), Type: string(f.FieldType())}
	})
	if err := r.store.PutMapping(ctx, name, props); err != nil {
		return fmt.Errorf("put mapping %s: %w", name, engineerr.Translate(err))
	}
	return nil
}
