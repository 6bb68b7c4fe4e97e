package db

import (
	"context"
	"encoding/json"
	"time"
)

// Engine is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Engine interface {
	Pinger
	IndexManager
	DocumentStore
	Searcher
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle and mapping operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	GetSettings(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	GetMapping(ctx context.Context, names ...string) (map[string]json.RawMessage, error)
	DeleteIndex(ctx context.Context, names ...string) error
	PutMapping(ctx context.Context, name string, fields []IndexField) error
}

// DocumentStore provides single-document and bulk write operations.
type DocumentStore interface {
	IndexDocument(ctx context.Context, index, id string, fields map[string]any, opts WriteOptions) (*WriteResult, error)
	Bulk(ctx context.Context, index string, items []BulkItem, refresh string) ([]BulkItemResult, error)
	GetDocument(ctx context.Context, index, id string) (*StoredDocument, error)
	UpdateDocument(ctx context.Context, index, id string, partial map[string]any, opts WriteOptions) (*WriteResult, error)
	DeleteDocument(ctx context.Context, index, id string, opts WriteOptions) (*WriteResult, error)
}

// Searcher runs queries.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}

// WriteOptions tunes a single document index, update or delete.
type WriteOptions struct {
	// Refresh overrides the client default ("", "true", "false", "wait_for").
	Refresh string
	// IfSeqNo and IfPrimaryTerm enable optimistic concurrency when both are set.
	IfSeqNo       *int64
	IfPrimaryTerm *int64
}

// WriteResult is the engine acknowledgement of a document write.
type WriteResult struct {
	Index       string
	ID          string
	Version     int64
	SeqNo       int64
	PrimaryTerm int64
	Result      string // created, updated, deleted, noop
}

// StoredDocument is a document as returned by a get.
type StoredDocument struct {
	Index       string
	ID          string
	Version     int64
	SeqNo       int64
	PrimaryTerm int64
	Source      map[string]any
}

// BulkItem is one document in a bulk submission. An empty ID lets the engine generate one.
type BulkItem struct {
	ID     string
	Source map[string]any
}

// BulkItemResult is the per-item outcome of a bulk submission, in submission order.
type BulkItemResult struct {
	ID      string
	Status  int
	Version int64
	Result  string
	Err     error
}

// HashSetItem is one user hash for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore reads and writes user records stored as hashes.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Unlink(ctx context.Context, keys ...string) (int64, error)
}

// RecordStore is the facade over the external user record backend.
type RecordStore interface {
	Pinger
	HashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
