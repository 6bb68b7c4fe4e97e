package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	domidx "github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
	batchuc "github.com/kailas-cloud/esbridge/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/esbridge/internal/usecase/health"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type ackResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Index        string `json:"index,omitempty"`
}

type fieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type fieldsRequest struct {
	Fields []fieldDefinition `json:"fields"`
}

type indexInfo struct {
	Settings json.RawMessage `json:"settings"`
	Mappings json.RawMessage `json:"mappings"`
}

type writeResponse struct {
	Index       string `json:"_index"`
	ID          string `json:"_id"`
	Version     int64  `json:"_version"`
	Result      string `json:"result"`
	SeqNo       int64  `json:"_seq_no"`
	PrimaryTerm int64  `json:"_primary_term"`
}

type documentResponse struct {
	Index       string         `json:"_index"`
	ID          string         `json:"_id"`
	Version     int64          `json:"_version"`
	SeqNo       int64          `json:"_seq_no"`
	PrimaryTerm int64          `json:"_primary_term"`
	Found       bool           `json:"found"`
	Source      map[string]any `json:"_source"`
}

type bulkItem struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type bulkRequest struct {
	Documents []bulkItem `json:"documents"`
}

type bulkResultItem struct {
	ID      string         `json:"id,omitempty"`
	Status  string         `json:"status"`
	Version int64          `json:"version,omitempty"`
	Error   *errorResponse `json:"error,omitempty"`
}

type bulkResponse struct {
	Errors    bool             `json:"errors"`
	Items     []bulkResultItem `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

type searchRequest struct {
	Query json.RawMessage `json:"query"`
	From  int             `json:"from"`
	Size  int             `json:"size"`
	Type  string          `json:"type"`
}

type hitResponse struct {
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}

type totalResponse struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

type hitsResponse struct {
	Total    totalResponse `json:"total"`
	MaxScore float64       `json:"max_score"`
	Hits     []hitResponse `json:"hits"`
}

type searchResponse struct {
	Took     int64        `json:"took"`
	TimedOut bool         `json:"timed_out"`
	Hits     hitsResponse `json:"hits"`
}

func fieldsFromRequest(defs []fieldDefinition) ([]field.Field, error) {
	fields := make([]field.Field, 0, len(defs))
	for _, d := range defs {
		f, err := field.New(d.Name, field.Type(d.Type))
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func indexInfosToResponse(infos []domidx.Info) map[string]indexInfo {
	return lo.SliceToMap(infos, func(i domidx.Info) (string, indexInfo) {
		return i.Name, indexInfo{Settings: i.Settings, Mappings: i.Mappings}
	})
}

func ackToResponse(a domdoc.Ack) writeResponse {
	return writeResponse{
		Index:       a.Index,
		ID:          a.ID,
		Version:     a.Version,
		Result:      a.Result,
		SeqNo:       a.SeqNo,
		PrimaryTerm: a.PrimaryTerm,
	}
}

func documentToResponse(d *domdoc.Document) documentResponse {
	return documentResponse{
		Index:       d.Index(),
		ID:          d.ID(),
		Version:     d.Version(),
		SeqNo:       d.SeqNo(),
		PrimaryTerm: d.PrimaryTerm(),
		Found:       true,
		Source:      d.Fields(),
	}
}

func batchResultsToResponse(results []dombatch.Result) bulkResponse {
	succeeded, failed := dombatch.Summary(results)
	return bulkResponse{
		Errors:    failed > 0,
		Items:     lo.Map(results, func(r dombatch.Result, _ int) bulkResultItem { return batchResultToResponse(r) }),
		Succeeded: succeeded,
		Failed:    failed,
	}
}

func batchResultToResponse(r dombatch.Result) bulkResultItem {
	item := bulkResultItem{
		ID:      r.ID(),
		Status:  string(r.Status()),
		Version: r.Version(),
	}
	if r.Err() != nil {
		item.Error = &errorResponse{
			Code:    errorCodeOf(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}

func hitsToResponse(hits []result.Hit) []hitResponse {
	out := make([]hitResponse, len(hits))
	for i := range hits {
		out[i] = hitResponse{
			Index:  hits[i].Index(),
			ID:     hits[i].ID(),
			Score:  hits[i].Score(),
			Source: hits[i].Source(),
		}
	}
	return out
}

func searchResultToResponse(r *result.Result) searchResponse {
	return searchResponse{
		Took:     r.TookMs(),
		TimedOut: r.TimedOut(),
		Hits: hitsResponse{
			Total:    totalResponse{Value: r.Total(), Relation: r.TotalRelation()},
			MaxScore: r.MaxScore(),
			Hits:     hitsToResponse(r.Hits()),
		},
	}
}

func bulkItemsToBatch(items []bulkItem) []batchuc.Item {
	return lo.Map(items, func(i bulkItem, _ int) batchuc.Item {
		return batchuc.Item{ID: i.ID, Fields: i.Fields}
	})
}

// decodeJSON decodes the request body. Numbers stay json.Number so integer
// field values keep their exact representation.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
