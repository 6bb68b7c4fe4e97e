package result

// Hit is a single matched document.
type Hit struct {
	index  string
	id     string
	score  float64
	source map[string]any
}

// NewHit creates a search hit.
func NewHit(index, id string, score float64, source map[string]any) Hit {
	return Hit{index: index, id: id, score: score, source: source}
}

// Index returns the index the hit came from.
func (h *Hit) Index() string { return h.index }

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Source returns the stored document fields.
func (h *Hit) Source() map[string]any { return h.source }

// Result is a read-only projection of an engine search response.
type Result struct {
	hits          []Hit
	total         int64
	totalRelation string
	tookMs        int64
	timedOut      bool
	maxScore      float64
}

// New creates a search result. A nil hits slice is normalized to empty.
func New(hits []Hit, total int64, totalRelation string, tookMs int64, timedOut bool, maxScore float64) Result {
	if hits == nil {
		hits = []Hit{}
	}
	if totalRelation == "" {
		totalRelation = "eq"
	}
	return Result{
		hits: hits, total: total, totalRelation: totalRelation,
		tookMs: tookMs, timedOut: timedOut, maxScore: maxScore,
	}
}

// Hits returns the matched documents in engine order.
func (r *Result) Hits() []Hit { return r.hits }

// Total returns the number of matching documents.
func (r *Result) Total() int64 { return r.total }

// TotalRelation is "eq" for an exact total, "gte" for a lower bound.
func (r *Result) TotalRelation() string { return r.totalRelation }

// TookMs returns the engine-side execution time in milliseconds.
func (r *Result) TookMs() int64 { return r.tookMs }

// TimedOut reports whether the engine hit its search timeout.
func (r *Result) TimedOut() bool { return r.timedOut }

// MaxScore returns the highest hit score (0 without hits).
func (r *Result) MaxScore() float64 { return r.maxScore }

// Project narrows a result down to its hits, dropping envelope metadata.
// Zero matches yield an empty, non-nil slice.
func Project(r Result) []Hit {
	if len(r.hits) == 0 {
		return []Hit{}
	}
	out := make([]Hit, len(r.hits))
	copy(out, r.hits)
	return out
}
