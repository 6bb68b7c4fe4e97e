package db

import "github.com/kailas-cloud/esbridge/internal/domain/search/query"

// DocType is the single mapping type left since engine 7.0.
const DocType = "_doc"

// SearchQuery is the input for a search over one or more indices.
type SearchQuery struct {
	Indices []string
	Query   query.Query
	From    int
	Size    int // 0 = engine default
	// Type is the legacy mapping-type filter; only "" and DocType are accepted.
	Type string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total         int64
	TotalRelation string
	TookMs        int64
	TimedOut      bool
	MaxScore      float64
	Hits          []SearchHit
}

// SearchHit is a single document hit from a search.
type SearchHit struct {
	Index  string
	ID     string
	Score  float64
	Source map[string]any
}
