package chi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esbridge/internal/domain/search/query"
)

// parseQuery decodes the match/term/match_all/bool subset of the engine's
// query DSL. An empty body means match_all.
func parseQuery(raw json.RawMessage) (query.Query, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return query.MatchAll(), nil
	}

	var clause map[string]json.RawMessage
	if err := unmarshal(raw, &clause); err != nil {
		return query.Query{}, fmt.Errorf("query must be an object: %w", err)
	}
	if len(clause) != 1 {
		return query.Query{}, fmt.Errorf("query must have exactly one clause, got %d", len(clause))
	}

	for kind, body := range clause {
		switch query.Kind(kind) {
		case query.KindMatch:
			return parseMatch(body)
		case query.KindTerm:
			return parseTerm(body)
		case query.KindMatchAll:
			return query.MatchAll(), nil
		case query.KindBool:
			return parseBool(body)
		default:
			return query.Query{}, fmt.Errorf("unsupported query clause %q", kind)
		}
	}
	return query.Query{}, fmt.Errorf("empty query")
}

// parseMatch accepts {"field":"text"} and {"field":{"query":"text"}}.
func parseMatch(raw json.RawMessage) (query.Query, error) {
	field, body, err := singleField(raw, "match")
	if err != nil {
		return query.Query{}, err
	}

	var text string
	if err := unmarshal(body, &text); err == nil {
		return query.NewMatch(field, text)
	}
	var long struct {
		Query string `json:"query"`
	}
	if err := unmarshal(body, &long); err != nil {
		return query.Query{}, fmt.Errorf("match on %q: %w", field, err)
	}
	return query.NewMatch(field, long.Query)
}

// parseTerm accepts {"field":value} and {"field":{"value":value}}.
func parseTerm(raw json.RawMessage) (query.Query, error) {
	field, body, err := singleField(raw, "term")
	if err != nil {
		return query.Query{}, err
	}

	var value any
	if err := unmarshal(body, &value); err != nil {
		return query.Query{}, fmt.Errorf("term on %q: %w", field, err)
	}
	if obj, ok := value.(map[string]any); ok {
		v, ok := obj["value"]
		if !ok || len(obj) != 1 {
			return query.Query{}, fmt.Errorf("term on %q: expected {\"value\": ...}", field)
		}
		value = v
	}
	return query.NewTerm(field, value)
}

// parseBool accepts each group either as an array or as a single clause.
func parseBool(raw json.RawMessage) (query.Query, error) {
	var groups map[string]json.RawMessage
	if err := unmarshal(raw, &groups); err != nil {
		return query.Query{}, fmt.Errorf("bool: %w", err)
	}

	parsed := map[string][]query.Query{}
	for name, body := range groups {
		switch name {
		case "must", "should", "must_not", "filter":
		default:
			return query.Query{}, fmt.Errorf("bool: unsupported group %q", name)
		}
		clauses, err := parseClauses(body)
		if err != nil {
			return query.Query{}, fmt.Errorf("bool %s: %w", name, err)
		}
		parsed[name] = clauses
	}

	return query.NewBool(parsed["must"], parsed["should"], parsed["must_not"], parsed["filter"])
}

func parseClauses(raw json.RawMessage) ([]query.Query, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		q, err := parseQuery(raw)
		if err != nil {
			return nil, err
		}
		return []query.Query{q}, nil
	}

	var items []json.RawMessage
	if err := unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]query.Query, 0, len(items))
	for i, item := range items {
		q, err := parseQuery(item)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func singleField(raw json.RawMessage, kind string) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := unmarshal(raw, &m); err != nil {
		return "", nil, fmt.Errorf("%s: %w", kind, err)
	}
	if len(m) != 1 {
		return "", nil, fmt.Errorf("%s must name exactly one field, got %d", kind, len(m))
	}
	for f, body := range m {
		return f, body, nil
	}
	return "", nil, fmt.Errorf("%s: no field", kind)
}

func unmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
