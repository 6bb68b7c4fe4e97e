package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esbridge/internal/domain"
	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	"github.com/kailas-cloud/esbridge/internal/domain/document/patch"
	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
	"github.com/kailas-cloud/esbridge/internal/domain/search/request"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
	batchuc "github.com/kailas-cloud/esbridge/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/esbridge/internal/usecase/document"
	healthuc "github.com/kailas-cloud/esbridge/internal/usecase/health"
	indexuc "github.com/kailas-cloud/esbridge/internal/usecase/index"
	searchuc "github.com/kailas-cloud/esbridge/internal/usecase/search"
)

// --- In-memory engine fakes ---

type memEngine struct {
	mu       sync.Mutex
	indices  map[string][]field.Field
	docs     map[string]map[string]any
	versions map[string]int64
	searchFn func(ctx context.Context, req *request.Request) (result.Result, error)
	lastReq  *request.Request
	lastOpts domdoc.WriteOptions
	refresh  string // refresh of the last bulk
	err      error // returned by every call when set
}

func newMemEngine() *memEngine {
	return &memEngine{
		indices:  map[string][]field.Field{},
		docs:     map[string]map[string]any{},
		versions: map[string]int64{},
	}
}

// index repository

type memIndexRepo struct{ e *memEngine }

func (m memIndexRepo) Create(_ context.Context, def domidx.Definition) error {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	if m.e.err != nil {
		return m.e.err
	}
	if _, ok := m.e.indices[def.Name()]; ok {
		return fmt.Errorf("create index %s: %w", def.Name(), domain.ErrAlreadyExists)
	}
	m.e.indices[def.Name()] = def.Fields()
	return nil
}

func (m memIndexRepo) Exists(_ context.Context, name string) (bool, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	_, ok := m.e.indices[name]
	return ok, m.e.err
}

func (m memIndexRepo) Describe(_ context.Context, names []string) ([]domidx.Info, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	infos := make([]domidx.Info, 0, len(names))
	for _, n := range names {
		fields, ok := m.e.indices[n]
		if !ok {
			return nil, domain.ErrNotFound
		}
		props := map[string]any{}
		for _, f := range fields {
			props[f.Name()] = map[string]string{"type": string(f.FieldType())}
		}
		mappings, _ := json.Marshal(map[string]any{"properties": props})
		infos = append(infos, domidx.Info{Name: n, Settings: json.RawMessage(`{"index":{}}`), Mappings: mappings})
	}
	return infos, nil
}

func (m memIndexRepo) Delete(_ context.Context, names []string) error {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	for _, n := range names {
		if _, ok := m.e.indices[n]; !ok {
			return domain.ErrNotFound
		}
		delete(m.e.indices, n)
	}
	return nil
}

func (m memIndexRepo) AddFields(_ context.Context, name string, fields []field.Field) error {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	current, ok := m.e.indices[name]
	if !ok {
		return domain.ErrNotFound
	}
	types := make(map[string]field.Type, len(current))
	for _, f := range current {
		types[f.Name()] = f.FieldType()
	}
	for _, f := range fields {
		if t, ok := types[f.Name()]; ok && t != f.FieldType() {
			return fmt.Errorf("%w: %s is %s", domain.ErrConflictingType, f.Name(), t)
		}
	}
	for _, f := range fields {
		if _, ok := types[f.Name()]; !ok {
			current = append(current, f)
			types[f.Name()] = f.FieldType()
		}
	}
	m.e.indices[name] = current
	return nil
}

// document repository

type memDocRepo struct{ e *memEngine }

func (m memDocRepo) write(index, id string, fields map[string]any, expectSeq *domdoc.Precondition) (domdoc.Ack, error) {
	if m.e.err != nil {
		return domdoc.Ack{}, m.e.err
	}
	if id == "" {
		id = fmt.Sprintf("gen-%d", len(m.e.docs)+1)
	}
	key := index + "/" + id
	if expectSeq != nil && expectSeq.SeqNo != m.e.versions[key]-1 {
		return domdoc.Ack{}, domain.NewVersionConflict(index, id, "sequence number mismatch")
	}
	result := domdoc.ResultUpdated
	if _, ok := m.e.docs[key]; !ok {
		result = domdoc.ResultCreated
	}
	m.e.docs[key] = fields
	m.e.versions[key]++
	v := m.e.versions[key]
	return domdoc.Ack{Index: index, ID: id, Version: v, SeqNo: v - 1, PrimaryTerm: 1, Result: result}, nil
}

func (m memDocRepo) Index(_ context.Context, doc domdoc.Document, opts domdoc.WriteOptions) (domdoc.Ack, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	m.e.lastOpts = opts
	return m.write(doc.Index(), doc.ID(), doc.Fields(), opts.If)
}

func (m memDocRepo) Get(_ context.Context, index, id string) (domdoc.Document, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	key := index + "/" + id
	fields, ok := m.e.docs[key]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	v := m.e.versions[key]
	return domdoc.Reconstruct(index, id, fields, v, v-1, 1), nil
}

func (m memDocRepo) Update(
	_ context.Context, index, id string, p patch.Patch, opts domdoc.WriteOptions,
) (domdoc.Ack, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	m.e.lastOpts = opts
	current, ok := m.e.docs[index+"/"+id]
	if !ok {
		return domdoc.Ack{}, domain.ErrDocumentNotFound
	}
	merged := maps.Clone(current)
	maps.Copy(merged, p.Fields())
	return m.write(index, id, merged, opts.If)
}

func (m memDocRepo) Delete(_ context.Context, index, id string, opts domdoc.WriteOptions) (domdoc.Ack, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	m.e.lastOpts = opts
	key := index + "/" + id
	if _, ok := m.e.docs[key]; !ok {
		return domdoc.Ack{}, domain.ErrDocumentNotFound
	}
	if opts.If != nil && opts.If.SeqNo != m.e.versions[key]-1 {
		return domdoc.Ack{}, domain.NewVersionConflict(index, id, "sequence number mismatch")
	}
	delete(m.e.docs, key)
	m.e.versions[key]++
	return domdoc.Ack{Index: index, ID: id, Version: m.e.versions[key], Result: domdoc.ResultDeleted}, nil
}

func (m memDocRepo) Bulk(
	_ context.Context, index string, docs []domdoc.Document, refresh string,
) ([]dombatch.Result, error) {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	m.e.refresh = refresh
	if m.e.err != nil {
		return nil, m.e.err
	}
	out := make([]dombatch.Result, len(docs))
	for i, d := range docs {
		ack, err := m.write(index, d.ID(), d.Fields(), nil)
		if err != nil {
			out[i] = dombatch.NewError(i, d.ID(), err)
			continue
		}
		out[i] = dombatch.NewOK(i, ack.ID, ack.Version)
	}
	return out, nil
}

// search repository

type memSearchRepo struct{ e *memEngine }

func (m memSearchRepo) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	m.e.mu.Lock()
	m.e.lastReq = req
	fn, err := m.e.searchFn, m.e.err
	m.e.mu.Unlock()
	if err != nil {
		return result.Result{}, err
	}
	if fn != nil {
		return fn(ctx, req)
	}
	return result.New(nil, 0, "eq", 0, false, 0), nil
}

// user source

type memUsers struct {
	records []domuser.Record
}

func (m *memUsers) FetchOne(_ context.Context) (domuser.Record, error) {
	if len(m.records) == 0 {
		return domuser.Record{}, domain.ErrNoRecords
	}
	return m.records[0], nil
}

func (m *memUsers) FetchAll(_ context.Context) ([]domuser.Record, error) {
	return m.records, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Harness ---

type testEnv struct {
	engine *memEngine
	users  *memUsers
	pinger *mockPinger
	h      http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newMemEngine()
	users := &memUsers{records: []domuser.Record{
		{ID: 1, Name: "Ann", Email: "ann@example.com", Age: 30},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Age: 41},
	}}
	pinger := &mockPinger{}

	const idx = "custom-users"
	srv := NewServer(
		indexuc.New(memIndexRepo{e}, idx),
		documentuc.New(memDocRepo{e}, users, idx),
		batchuc.New(memDocRepo{e}, users, idx),
		searchuc.New(memSearchRepo{e}),
		healthuc.New(pinger, nil),
		zap.NewNop(),
	)
	return &testEnv{engine: e, users: users, pinger: pinger, h: srv.Handler()}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code errorCode) {
	t.Helper()
	expectStatus(t, rec, status)
	resp := decode[errorResponse](t, rec)
	if resp.Code != code {
		t.Errorf("code = %q, want %q (message %q)", resp.Code, code, resp.Message)
	}
}
