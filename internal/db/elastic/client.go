package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/metrics"
)

// Compile-time check: Client implements db.Engine.
var _ db.Engine = (*Client)(nil)

// Config holds connection parameters for the search engine.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	// Refresh is the default refresh policy for writes ("", "true", "false", "wait_for").
	Refresh string
	// Transport overrides the HTTP transport (tests, custom TLS).
	Transport http.RoundTripper
}

// Client implements db.Engine over the official engine client.
// One Client is shared by all callers; its transport owns the connection pool.
// Every call is attempted exactly once.
type Client struct {
	es      *elasticsearch.Client
	refresh string
}

// New creates an engine client. It does not contact the engine.
func New(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
		// a failed call surfaces to the caller; retried writes may duplicate generated ids
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine client: %w", err)
	}

	return &Client{es: es, refresh: cfg.Refresh}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.perform(db.OpPing, func() (*esapi.Response, error) {
		return c.es.Ping(c.es.Ping.WithContext(ctx))
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(db.OpPing, res, false)
	}
	return nil
}

// WaitForReady polls Ping until the engine responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search engine: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// perform runs one engine call and records its metrics.
// A transport failure is returned as db.ErrConnection.
func (c *Client) perform(op string, call func() (*esapi.Response, error)) (*esapi.Response, error) {
	start := time.Now()
	res, err := call()
	if err != nil {
		metrics.ObserveEngine(op, "transport_error", start)
		return nil, transportError(op, err)
	}
	metrics.ObserveEngine(op, strconv.Itoa(res.StatusCode), start)
	return res, nil
}

func (c *Client) refreshPolicy(override string) string {
	if override != "" {
		return override
	}
	return c.refresh
}

// decodeBody keeps numbers in _source as json.Number so integers survive unchanged.
func decodeBody(op string, res *esapi.Response, v any) error {
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &db.Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
