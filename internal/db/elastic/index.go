package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esbridge/internal/db"
)

// CreateIndex creates an index with its settings and mappings.
func (c *Client) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	body, err := CreateIndexBody(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	res, err := c.perform(db.OpCreateIndex, func() (*esapi.Response, error) {
		return c.es.Indices.Create(def.Name,
			c.es.Indices.Create.WithBody(bytes.NewReader(body)),
			c.es.Indices.Create.WithContext(ctx),
		)
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(db.OpCreateIndex, res, false)
	}
	return nil
}

// IndexExists reports whether the index is present.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.perform(db.OpIndexExists, func() (*esapi.Response, error) {
		return c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	})
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, decodeError(db.OpIndexExists, res, false)
	}
}

// GetSettings returns the settings object of each named index.
func (c *Client) GetSettings(ctx context.Context, names ...string) (map[string]json.RawMessage, error) {
	res, err := c.perform(db.OpGetSettings, func() (*esapi.Response, error) {
		return c.es.Indices.GetSettings(
			c.es.Indices.GetSettings.WithIndex(names...),
			c.es.Indices.GetSettings.WithContext(ctx),
		)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpGetSettings, res, false)
	}
	return perIndex(db.OpGetSettings, res, "settings")
}

// GetMapping returns the mappings object of each named index.
func (c *Client) GetMapping(ctx context.Context, names ...string) (map[string]json.RawMessage, error) {
	res, err := c.perform(db.OpGetMapping, func() (*esapi.Response, error) {
		return c.es.Indices.GetMapping(
			c.es.Indices.GetMapping.WithIndex(names...),
			c.es.Indices.GetMapping.WithContext(ctx),
		)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeError(db.OpGetMapping, res, false)
	}
	return perIndex(db.OpGetMapping, res, "mappings")
}

// DeleteIndex drops the named indices.
func (c *Client) DeleteIndex(ctx context.Context, names ...string) error {
	res, err := c.perform(db.OpDeleteIndex, func() (*esapi.Response, error) {
		return c.es.Indices.Delete(names, c.es.Indices.Delete.WithContext(ctx))
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(db.OpDeleteIndex, res, false)
	}
	return nil
}

// PutMapping adds fields to an existing index mapping.
func (c *Client) PutMapping(ctx context.Context, name string, fields []db.IndexField) error {
	if err := db.ValidateFields(fields); err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}

	body, err := PutMappingBody(fields)
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Err: err}
	}

	res, err := c.perform(db.OpPutMapping, func() (*esapi.Response, error) {
		return c.es.Indices.PutMapping([]string{name}, bytes.NewReader(body),
			c.es.Indices.PutMapping.WithContext(ctx),
		)
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(db.OpPutMapping, res, false)
	}
	return nil
}

// perIndex extracts one top-level key from an {"<index>": {...}} response.
func perIndex(op string, res *esapi.Response, key string) (map[string]json.RawMessage, error) {
	var body map[string]map[string]json.RawMessage
	if err := decodeBody(op, res, &body); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(body))
	for name, sections := range body {
		out[name] = sections[key]
	}
	return out, nil
}
