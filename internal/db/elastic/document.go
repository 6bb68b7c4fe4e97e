package elastic

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/metrics"
)

type writeResponse struct {
	Index       string `json:"_index"`
	ID          string `json:"_id"`
	Version     int64  `json:"_version"`
	SeqNo       int64  `json:"_seq_no"`
	PrimaryTerm int64  `json:"_primary_term"`
	Result      string `json:"result"`
}

func (w writeResponse) toResult() *db.WriteResult {
	return &db.WriteResult{
		Index:       w.Index,
		ID:          w.ID,
		Version:     w.Version,
		SeqNo:       w.SeqNo,
		PrimaryTerm: w.PrimaryTerm,
		Result:      w.Result,
	}
}

type getResponse struct {
	Index       string         `json:"_index"`
	ID          string         `json:"_id"`
	Version     int64          `json:"_version"`
	SeqNo       int64          `json:"_seq_no"`
	PrimaryTerm int64          `json:"_primary_term"`
	Found       bool           `json:"found"`
	Source      map[string]any `json:"_source"`
}

type bulkResponse struct {
	Errors bool                          `json:"errors"`
	Items  []map[string]bulkItemResponse `json:"items"`
}

type bulkItemResponse struct {
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
	Status  int    `json:"status"`
	Error   *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// IndexDocument writes a full document. An empty id lets the engine generate one.
func (c *Client) IndexDocument(
	ctx context.Context, index, id string, fields map[string]any, opts db.WriteOptions,
) (*db.WriteResult, error) {
	body, err := DocumentBody(fields)
	if err != nil {
		return nil, &db.Error{Op: db.OpIndex, Err: err}
	}

	options := []func(*esapi.IndexRequest){c.es.Index.WithContext(ctx)}
	if id != "" {
		options = append(options, c.es.Index.WithDocumentID(id))
	}
	if r := c.refreshPolicy(opts.Refresh); r != "" {
		options = append(options, c.es.Index.WithRefresh(r))
	}
	if opts.IfSeqNo != nil && opts.IfPrimaryTerm != nil {
		options = append(options,
			c.es.Index.WithIfSeqNo(int(*opts.IfSeqNo)),
			c.es.Index.WithIfPrimaryTerm(int(*opts.IfPrimaryTerm)),
		)
	}

	res, err := c.perform(db.OpIndex, func() (*esapi.Response, error) {
		return c.es.Index(index, bytes.NewReader(body), options...)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpIndex, res, false)
	}

	var wr writeResponse
	if err := decodeBody(db.OpIndex, res, &wr); err != nil {
		return nil, err
	}
	return wr.toResult(), nil
}

// Bulk indexes items in one request. Per-item failures are reported in the
// matching result and never fail the call.
func (c *Client) Bulk(
	ctx context.Context, index string, items []db.BulkItem, refresh string,
) ([]db.BulkItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	body, err := BulkBody(index, items)
	if err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}

	options := []func(*esapi.BulkRequest){
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	}
	if r := c.refreshPolicy(refresh); r != "" {
		options = append(options, c.es.Bulk.WithRefresh(r))
	}

	res, err := c.perform(db.OpBulk, func() (*esapi.Response, error) {
		return c.es.Bulk(bytes.NewReader(body), options...)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpBulk, res, false)
	}

	var br bulkResponse
	if err := decodeBody(db.OpBulk, res, &br); err != nil {
		return nil, err
	}
	if len(br.Items) != len(items) {
		return nil, &db.Error{
			Op:  db.OpBulk,
			Err: fmt.Errorf("engine returned %d items for %d submitted", len(br.Items), len(items)),
		}
	}

	out := make([]db.BulkItemResult, len(items))
	for i, entry := range br.Items {
		// one action per entry, keyed by action name
		var item bulkItemResponse
		for _, v := range entry {
			item = v
		}
		out[i] = bulkItemResult(item)
	}
	return out, nil
}

func bulkItemResult(item bulkItemResponse) db.BulkItemResult {
	r := db.BulkItemResult{
		ID:      item.ID,
		Status:  item.Status,
		Version: item.Version,
		Result:  item.Result,
	}
	if item.Error != nil || item.Status >= http.StatusBadRequest {
		cause := errorCause{}
		if item.Error != nil {
			cause = errorCause{Type: item.Error.Type, Reason: item.Error.Reason}
		}
		r.Err = db.NewEngineError(item.Status, cause.Type, cause.Reason, classify(item.Status, cause, true))
		metrics.BulkItemsTotal.WithLabelValues("error").Inc()
		return r
	}
	metrics.BulkItemsTotal.WithLabelValues("ok").Inc()
	return r
}

// GetDocument fetches a document by id.
func (c *Client) GetDocument(ctx context.Context, index, id string) (*db.StoredDocument, error) {
	res, err := c.perform(db.OpGet, func() (*esapi.Response, error) {
		return c.es.Get(index, id, c.es.Get.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpGet, res, true)
	}

	var gr getResponse
	if err := decodeBody(db.OpGet, res, &gr); err != nil {
		return nil, err
	}
	if !gr.Found {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrDocumentNotFound}
	}
	if gr.Source == nil {
		gr.Source = map[string]any{}
	}

	return &db.StoredDocument{
		Index:       gr.Index,
		ID:          gr.ID,
		Version:     gr.Version,
		SeqNo:       gr.SeqNo,
		PrimaryTerm: gr.PrimaryTerm,
		Source:      gr.Source,
	}, nil
}

// UpdateDocument merges partial into the stored source.
func (c *Client) UpdateDocument(
	ctx context.Context, index, id string, partial map[string]any, opts db.WriteOptions,
) (*db.WriteResult, error) {
	body, err := UpdateBody(partial)
	if err != nil {
		return nil, &db.Error{Op: db.OpUpdate, Err: err}
	}

	options := []func(*esapi.UpdateRequest){c.es.Update.WithContext(ctx)}
	if r := c.refreshPolicy(opts.Refresh); r != "" {
		options = append(options, c.es.Update.WithRefresh(r))
	}
	if opts.IfSeqNo != nil && opts.IfPrimaryTerm != nil {
		options = append(options,
			c.es.Update.WithIfSeqNo(int(*opts.IfSeqNo)),
			c.es.Update.WithIfPrimaryTerm(int(*opts.IfPrimaryTerm)),
		)
	}

	res, err := c.perform(db.OpUpdate, func() (*esapi.Response, error) {
		return c.es.Update(index, id, bytes.NewReader(body), options...)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpUpdate, res, true)
	}

	var wr writeResponse
	if err := decodeBody(db.OpUpdate, res, &wr); err != nil {
		return nil, err
	}
	return wr.toResult(), nil
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(
	ctx context.Context, index, id string, opts db.WriteOptions,
) (*db.WriteResult, error) {
	options := []func(*esapi.DeleteRequest){c.es.Delete.WithContext(ctx)}
	if r := c.refreshPolicy(opts.Refresh); r != "" {
		options = append(options, c.es.Delete.WithRefresh(r))
	}
	if opts.IfSeqNo != nil && opts.IfPrimaryTerm != nil {
		options = append(options,
			c.es.Delete.WithIfSeqNo(int(*opts.IfSeqNo)),
			c.es.Delete.WithIfPrimaryTerm(int(*opts.IfPrimaryTerm)),
		)
	}

	res, err := c.perform(db.OpDelete, func() (*esapi.Response, error) {
		return c.es.Delete(index, id, options...)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpDelete, res, true)
	}

	var wr writeResponse
	if err := decodeBody(db.OpDelete, res, &wr); err != nil {
		return nil, err
	}
	return wr.toResult(), nil
}
