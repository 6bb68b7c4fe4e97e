package elastic

import (
	"bytes"
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esbridge/internal/db"
)

type searchResponse struct {
	Took     int64 `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Hits     struct {
		Total struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Index  string         `json:"_index"`
			ID     string         `json:"_id"`
			Score  *float64       `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a query over the given indices. No match yields an empty result.
func (c *Client) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.Type != "" && q.Type != db.DocType {
		return nil, &db.Error{
			Op:  db.OpSearch,
			Err: fmt.Errorf("%w: mapping type %q is not supported", db.ErrBadRequest, q.Type),
		}
	}

	body, err := SearchBody(q.Query, q.From, q.Size)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := c.perform(db.OpSearch, func() (*esapi.Response, error) {
		return c.es.Search(
			c.es.Search.WithIndex(q.Indices...),
			c.es.Search.WithBody(bytes.NewReader(body)),
			c.es.Search.WithTrackTotalHits(true),
			c.es.Search.WithContext(ctx),
		)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpSearch, res, false)
	}

	var sr searchResponse
	if err := decodeBody(db.OpSearch, res, &sr); err != nil {
		return nil, err
	}

	out := &db.SearchResult{
		Total:         sr.Hits.Total.Value,
		TotalRelation: sr.Hits.Total.Relation,
		TookMs:        sr.Took,
		TimedOut:      sr.TimedOut,
		Hits:          make([]db.SearchHit, 0, len(sr.Hits.Hits)),
	}
	if sr.Hits.MaxScore != nil {
		out.MaxScore = *sr.Hits.MaxScore
	}
	for _, h := range sr.Hits.Hits {
		hit := db.SearchHit{Index: h.Index, ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
