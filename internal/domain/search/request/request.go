package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/esbridge/internal/domain/index"
	"github.com/kailas-cloud/esbridge/internal/domain/search/query"
)

// Search parameter limits.
const (
	DefaultSize = 10
	// MaxResultWindow is the engine's default cap on from+size.
	MaxResultWindow = 10000
	// DocType is the only mapping type left since engine 7.0.
	DocType = "_doc"
)

// Request is a validated search over one or more indices.
type Request struct {
	indices []string
	q       query.Query
	from    int
	size    int
	docType string
}

// New validates and normalizes search parameters.
// A zero query means match_all. size 0 means DefaultSize.
func New(indices []string, q query.Query, from, size int, docType string) (Request, error) {
	if len(indices) == 0 {
		return Request{}, fmt.Errorf("at least one index is required")
	}
	for _, name := range indices {
		// wildcards are allowed in search targets only
		if err := index.ValidateName(strings.ReplaceAll(name, "*", "x")); err != nil {
			return Request{}, err
		}
	}
	if docType != "" && docType != DocType {
		return Request{}, fmt.Errorf("mapping type %q is not supported, use %q or none", docType, DocType)
	}
	if from < 0 {
		return Request{}, fmt.Errorf("from must not be negative")
	}
	if size < 0 {
		return Request{}, fmt.Errorf("size must not be negative")
	}
	if size == 0 {
		size = DefaultSize
	}
	if from+size > MaxResultWindow {
		return Request{}, fmt.Errorf("from + size must not exceed %d", MaxResultWindow)
	}
	if q.IsZero() {
		q = query.MatchAll()
	}

	cp := make([]string, len(indices))
	copy(cp, indices)
	return Request{indices: cp, q: q, from: from, size: size, docType: docType}, nil
}

// Indices returns the search targets.
func (r *Request) Indices() []string { return r.indices }

// Query returns the query to run.
func (r *Request) Query() query.Query { return r.q }

// From returns the offset of the first hit.
func (r *Request) From() int { return r.from }

// Size returns the maximum number of hits.
func (r *Request) Size() int { return r.size }

// DocType returns the legacy mapping-type filter ("" or DocType).
func (r *Request) DocType() string { return r.docType }
