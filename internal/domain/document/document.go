package document

import (
	"fmt"
	"maps"

	"github.com/kailas-cloud/esbridge/internal/domain/index"
)

// MaxIDLength is the engine's limit on document identifiers, in bytes.
const MaxIDLength = 512

// Document is a single record of field values stored under an index (immutable value object).
type Document struct {
	index       string
	id          string
	fields      map[string]any
	version     int64
	seqNo       int64
	primaryTerm int64
}

// ValidateID checks a client-supplied identifier. An empty id is valid and
// means the engine generates one.
func ValidateID(id string) error {
	if len(id) > MaxIDLength {
		return fmt.Errorf("document ID too long (%d bytes, max %d)", len(id), MaxIDLength)
	}
	return nil
}

// New validates and creates a Document. Fields are copied.
func New(indexName, id string, fields map[string]any) (Document, error) {
	if err := index.ValidateName(indexName); err != nil {
		return Document{}, err
	}
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return Document{index: indexName, id: id, fields: maps.Clone(fields)}, nil
}

// Reconstruct creates a Document without validation (engine response hydration).
func Reconstruct(indexName, id string, fields map[string]any, version, seqNo, primaryTerm int64) Document {
	return Document{
		index: indexName, id: id, fields: fields,
		version: version, seqNo: seqNo, primaryTerm: primaryTerm,
	}
}

// Index returns the owning index name.
func (d *Document) Index() string { return d.index }

// ID returns the document identifier (empty until the engine assigns one).
func (d *Document) ID() string { return d.id }

// Fields returns the document source.
func (d *Document) Fields() map[string]any { return d.fields }

// Version returns the engine-assigned version (0 if unknown).
func (d *Document) Version() int64 { return d.version }

// SeqNo returns the sequence number used for optimistic concurrency.
func (d *Document) SeqNo() int64 { return d.seqNo }

// PrimaryTerm returns the primary term used for optimistic concurrency.
func (d *Document) PrimaryTerm() int64 { return d.primaryTerm }
