package elastic

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeEngine is an in-memory engine speaking enough of the REST API for client tests.
type fakeEngine struct {
	mu       sync.Mutex
	indices  map[string]*fakeIndex
	seq      int
	lastBody  map[string][]byte     // route -> last request body
	lastQuery map[string]url.Values // route -> last query string
}

type fakeIndex struct {
	settings map[string]any
	props    map[string]any
	docs     map[string]*fakeDoc
}

type fakeDoc struct {
	source  map[string]any
	version int64
	seqNo   int64
}

func newFakeEngine(t *testing.T) (*fakeEngine, *Client) {
	t.Helper()

	f := &fakeEngine{
		indices:   map[string]*fakeIndex{},
		lastBody:  map[string][]byte{},
		lastQuery: map[string]url.Values{},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Elastic-Product", "Elasticsearch")
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})
	r.Head("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Put("/{index}", f.createIndex)
	r.Head("/{index}", f.indexExists)
	r.Delete("/{index}", f.deleteIndex)
	r.Get("/{index}/_settings", f.getSection("settings"))
	r.Get("/{index}/_mapping", f.getSection("mappings"))
	r.Put("/{index}/_mapping", f.putMapping)
	r.Post("/{index}/_doc", f.indexDoc)
	r.Put("/{index}/_doc/{id}", f.indexDoc)
	r.Get("/{index}/_doc/{id}", f.getDoc)
	r.Delete("/{index}/_doc/{id}", f.deleteDoc)
	r.Post("/{index}/_update/{id}", f.updateDoc)
	r.Post("/{index}/_bulk", f.bulk)
	r.Post("/{index}/_search", f.search)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f, c
}

func (f *fakeEngine) body(r *http.Request, route string) []byte {
	b, _ := io.ReadAll(r.Body)
	f.lastBody[route] = b
	f.lastQuery[route] = r.URL.Query()
	return b
}

// seqNoMatches enforces if_seq_no when the request carries one.
func (f *fakeEngine) seqNoMatches(w http.ResponseWriter, r *http.Request, idx *fakeIndex, id string) bool {
	s := r.URL.Query().Get("if_seq_no")
	if s == "" {
		return true
	}
	cur, exists := idx.docs[id]
	if !exists || fmt.Sprint(cur.seqNo) != s {
		writeEngineError(w, http.StatusConflict, typeVersionConflict,
			"["+id+"]: version conflict, required seqNo ["+s+"]")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEngineError(w http.ResponseWriter, status int, typ, reason string) {
	writeJSON(w, status, map[string]any{
		"error":  map[string]any{"type": typ, "reason": reason},
		"status": status,
	})
}

func (f *fakeEngine) createIndex(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := chi.URLParam(r, "index")
	raw := f.body(r, "create")
	if _, ok := f.indices[name]; ok {
		writeEngineError(w, http.StatusBadRequest, typeAlreadyExists, "index ["+name+"] already exists")
		return
	}

	var req struct {
		Settings map[string]any `json:"settings"`
		Mappings struct {
			Properties map[string]any `json:"properties"`
		} `json:"mappings"`
	}
	_ = json.Unmarshal(raw, &req)
	if req.Settings == nil {
		req.Settings = map[string]any{}
	}
	if req.Mappings.Properties == nil {
		req.Mappings.Properties = map[string]any{}
	}
	f.indices[name] = &fakeIndex{
		settings: map[string]any{"index": req.Settings},
		props:    req.Mappings.Properties,
		docs:     map[string]*fakeDoc{},
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true, "index": name})
}

func (f *fakeEngine) indexExists(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.indices[chi.URLParam(r, "index")]; ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *fakeEngine) deleteIndex(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := strings.Split(chi.URLParam(r, "index"), ",")
	for _, n := range names {
		if _, ok := f.indices[n]; !ok {
			writeEngineError(w, http.StatusNotFound, typeIndexNotFound, "no such index ["+n+"]")
			return
		}
	}
	for _, n := range names {
		delete(f.indices, n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

func (f *fakeEngine) getSection(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		out := map[string]any{}
		for _, n := range strings.Split(chi.URLParam(r, "index"), ",") {
			idx, ok := f.indices[n]
			if !ok {
				writeEngineError(w, http.StatusNotFound, typeIndexNotFound, "no such index ["+n+"]")
				return
			}
			if section == "settings" {
				out[n] = map[string]any{"settings": idx.settings}
			} else {
				out[n] = map[string]any{"mappings": map[string]any{"properties": idx.props}}
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (f *fakeEngine) putMapping(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := chi.URLParam(r, "index")
	raw := f.body(r, "mapping")
	idx, ok := f.indices[name]
	if !ok {
		writeEngineError(w, http.StatusNotFound, typeIndexNotFound, "no such index ["+name+"]")
		return
	}

	var req struct {
		Properties map[string]map[string]any `json:"properties"`
	}
	_ = json.Unmarshal(raw, &req)
	for field, p := range req.Properties {
		if cur, ok := idx.props[field].(map[string]any); ok && cur["type"] != p["type"] {
			writeEngineError(w, http.StatusBadRequest, typeIllegalArgument,
				fmt.Sprintf("mapper [%s] cannot be changed from type [%v] to [%v]", field, cur["type"], p["type"]))
			return
		}
	}
	for field, p := range req.Properties {
		idx.props[field] = p
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

func (f *fakeEngine) index(w http.ResponseWriter, name string) (*fakeIndex, bool) {
	idx, ok := f.indices[name]
	if !ok {
		writeEngineError(w, http.StatusNotFound, typeIndexNotFound, "no such index ["+name+"]")
	}
	return idx, ok
}

func (f *fakeEngine) put(idx *fakeIndex, id string, src map[string]any) (*fakeDoc, string) {
	f.seq++
	if id == "" {
		id = fmt.Sprintf("gen-%d", f.seq)
	}
	d, ok := idx.docs[id]
	if !ok {
		d = &fakeDoc{}
		idx.docs[id] = d
	}
	d.source = src
	d.version++
	d.seqNo = int64(f.seq)
	return d, id
}

func (f *fakeEngine) indexDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx, ok := f.index(w, chi.URLParam(r, "index"))
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var src map[string]any
	_ = json.Unmarshal(f.body(r, "index"), &src)

	if !f.seqNoMatches(w, r, idx, id) {
		return
	}

	existed := idx.docs[id] != nil
	d, id := f.put(idx, id, src)
	result := "created"
	status := http.StatusCreated
	if existed {
		result = "updated"
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"_index": chi.URLParam(r, "index"), "_id": id, "_version": d.version,
		"_seq_no": d.seqNo, "_primary_term": 1, "result": result,
	})
}

func (f *fakeEngine) getDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	idx, ok := f.index(w, name)
	if !ok {
		return
	}
	d, ok := idx.docs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"_index": name, "_id": id, "found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_index": name, "_id": id, "_version": d.version, "_seq_no": d.seqNo,
		"_primary_term": 1, "found": true, "_source": d.source,
	})
}

func (f *fakeEngine) updateDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	idx, ok := f.index(w, name)
	if !ok {
		return
	}
	var req struct {
		Doc map[string]any `json:"doc"`
	}
	_ = json.Unmarshal(f.body(r, "update"), &req)

	d, ok := idx.docs[id]
	if !ok {
		writeEngineError(w, http.StatusNotFound, typeDocumentMissing, "["+id+"]: document missing")
		return
	}
	if !f.seqNoMatches(w, r, idx, id) {
		return
	}
	merged := map[string]any{}
	for k, v := range d.source {
		merged[k] = v
	}
	for k, v := range req.Doc {
		merged[k] = v
	}
	d, _ = f.put(idx, id, merged)
	writeJSON(w, http.StatusOK, map[string]any{
		"_index": name, "_id": id, "_version": d.version, "_seq_no": d.seqNo,
		"_primary_term": 1, "result": "updated",
	})
}

func (f *fakeEngine) deleteDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	f.lastQuery["delete"] = r.URL.Query()
	idx, ok := f.index(w, name)
	if !ok {
		return
	}
	d, ok := idx.docs[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"_index": name, "_id": id, "result": "not_found"})
		return
	}
	if !f.seqNoMatches(w, r, idx, id) {
		return
	}
	delete(idx.docs, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"_index": name, "_id": id, "_version": d.version + 1, "result": "deleted",
	})
}

// bulk rejects items whose id starts with "bad" to exercise per-item failures.
func (f *fakeEngine) bulk(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw := f.body(r, "bulk")
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

	var items []map[string]any
	hasErrors := false
	for sc.Scan() {
		var action struct {
			Index struct {
				Index string `json:"_index"`
				ID    string `json:"_id"`
			} `json:"index"`
		}
		_ = json.Unmarshal(sc.Bytes(), &action)
		if !sc.Scan() {
			break
		}
		var src map[string]any
		_ = json.Unmarshal(sc.Bytes(), &src)

		id := action.Index.ID
		if strings.HasPrefix(id, "bad") {
			hasErrors = true
			items = append(items, map[string]any{"index": map[string]any{
				"_id": id, "status": http.StatusBadRequest,
				"error": map[string]any{"type": "mapper_parsing_exception", "reason": "failed to parse"},
			}})
			continue
		}
		idx, ok := f.indices[action.Index.Index]
		if !ok {
			idx = &fakeIndex{settings: map[string]any{}, props: map[string]any{}, docs: map[string]*fakeDoc{}}
			f.indices[action.Index.Index] = idx
		}
		d, id := f.put(idx, id, src)
		items = append(items, map[string]any{"index": map[string]any{
			"_id": id, "_version": d.version, "result": "created", "status": http.StatusCreated,
		}})
	}
	writeJSON(w, http.StatusOK, map[string]any{"took": 1, "errors": hasErrors, "items": items})
}

func (f *fakeEngine) search(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := chi.URLParam(r, "index")
	idx, ok := f.index(w, name)
	if !ok {
		return
	}
	var req struct {
		Query map[string]any `json:"query"`
	}
	_ = json.Unmarshal(f.body(r, "search"), &req)

	ids := make([]string, 0, len(idx.docs))
	for id, d := range idx.docs {
		if matches(req.Query, d.source) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	hits := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, map[string]any{"_index": name, "_id": id, "_score": 1.0, "_source": idx.docs[id].source})
	}
	var maxScore any
	if len(hits) > 0 {
		maxScore = 1.0
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"took": 2, "timed_out": false,
		"hits": map[string]any{
			"total":     map[string]any{"value": len(hits), "relation": "eq"},
			"max_score": maxScore,
			"hits":      hits,
		},
	})
}

func matches(q map[string]any, src map[string]any) bool {
	for kind, raw := range q {
		body, _ := raw.(map[string]any)
		switch kind {
		case "match_all":
			return true
		case "match":
			for field, text := range body {
				v := strings.ToLower(fmt.Sprint(src[field]))
				for _, tok := range strings.Fields(strings.ToLower(fmt.Sprint(text))) {
					if strings.Contains(v, tok) {
						return true
					}
				}
			}
			return false
		case "term":
			for field, want := range body {
				if fmt.Sprint(src[field]) != fmt.Sprint(want) {
					return false
				}
			}
			return true
		case "bool":
			return matchesBool(body, src)
		}
	}
	return true
}

func matchesBool(b map[string]any, src map[string]any) bool {
	clauses := func(key string) []map[string]any {
		list, _ := b[key].([]any)
		out := make([]map[string]any, 0, len(list))
		for _, c := range list {
			if m, ok := c.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	for _, c := range append(clauses("must"), clauses("filter")...) {
		if !matches(c, src) {
			return false
		}
	}
	for _, c := range clauses("must_not") {
		if matches(c, src) {
			return false
		}
	}
	should := clauses("should")
	if len(should) == 0 || len(clauses("must"))+len(clauses("filter")) > 0 {
		return true
	}
	for _, c := range should {
		if matches(c, src) {
			return true
		}
	}
	return false
}
