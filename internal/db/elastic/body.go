package elastic

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/domain/search/query"
)

// CreateIndexBody renders the create-index request: optional settings plus mappings.
func CreateIndexBody(def *db.IndexDefinition) ([]byte, error) {
	body := map[string]any{
		"mappings": map[string]any{"properties": properties(def.Fields)},
	}

	settings := map[string]any{}
	if def.Shards > 0 {
		settings["number_of_shards"] = def.Shards
	}
	if def.Replicas != nil {
		settings["number_of_replicas"] = *def.Replicas
	}
	if len(settings) > 0 {
		body["settings"] = settings
	}

	return marshal(body)
}

// PutMappingBody renders an additive mapping update.
func PutMappingBody(fields []db.IndexField) ([]byte, error) {
	return marshal(map[string]any{"properties": properties(fields)})
}

// DocumentBody renders the document source. A nil map renders as {}.
func DocumentBody(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	return marshal(fields)
}

// UpdateBody renders a partial update merged into the stored source.
func UpdateBody(partial map[string]any) ([]byte, error) {
	if partial == nil {
		partial = map[string]any{}
	}
	return marshal(map[string]any{"doc": partial})
}

type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id,omitempty"`
}

// BulkBody renders NDJSON with one action line and one source line per item.
// The body always ends with a newline.
func BulkBody(index string, items []db.BulkItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, item := range items {
		if err := enc.Encode(bulkAction{Index: bulkMeta{Index: index, ID: item.ID}}); err != nil {
			return nil, fmt.Errorf("bulk item %d action: %w", i, err)
		}
		src := item.Source
		if src == nil {
			src = map[string]any{}
		}
		if err := enc.Encode(src); err != nil {
			return nil, fmt.Errorf("bulk item %d source: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// SearchBody renders the search request. size 0 leaves the engine default.
func SearchBody(q query.Query, from, size int) ([]byte, error) {
	body := map[string]any{"query": QuerySource(q)}
	if from > 0 {
		body["from"] = from
	}
	if size > 0 {
		body["size"] = size
	}
	return marshal(body)
}

// QuerySource renders a query as query DSL. Bool groups are arrays so clauses
// sharing a key are all kept. A zero query renders as match_all.
func QuerySource(q query.Query) map[string]any {
	switch q.Kind() {
	case query.KindMatch:
		return map[string]any{"match": map[string]any{q.Field(): q.Text()}}
	case query.KindTerm:
		return map[string]any{"term": map[string]any{q.Field(): q.Value()}}
	case query.KindBool:
		b := q.Bool()
		groups := map[string]any{}
		addGroup(groups, "must", b.Must())
		addGroup(groups, "should", b.Should())
		addGroup(groups, "must_not", b.MustNot())
		addGroup(groups, "filter", b.Filter())
		return map[string]any{"bool": groups}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}

func addGroup(groups map[string]any, key string, clauses []query.Query) {
	if len(clauses) == 0 {
		return
	}
	groups[key] = lo.Map(clauses, func(c query.Query, _ int) map[string]any {
		return QuerySource(c)
	})
}

func properties(fields []db.IndexField) map[string]any {
	return lo.SliceToMap(fields, func(f db.IndexField) (string, any) {
		return f.Name, property(f)
	})
}

func property(f db.IndexField) map[string]any {
	return map[string]any{"type": f.Type}
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return data, nil
}
