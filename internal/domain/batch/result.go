package batch

// ItemStatus is the processing outcome of a single bulk item.
type ItemStatus string

// Bulk item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of one item in a bulk submission. Items fail
// independently; one failure never rolls back the others.
type Result struct {
	position int
	id       string
	status   ItemStatus
	version  int64
	err      error
}

// NewOK creates a successful item result.
func NewOK(position int, id string, version int64) Result {
	return Result{position: position, id: id, status: StatusOK, version: version}
}

// NewError creates a failed item result.
func NewError(position int, id string, err error) Result {
	return Result{position: position, id: id, status: StatusError, err: err}
}

// Position returns the zero-based index of the item in the submission.
func (r Result) Position() int { return r.position }

// ID returns the item identifier (engine-assigned when the caller gave none).
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Version returns the document version after a successful write.
func (r Result) Version() int64 { return r.version }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// At returns a copy of the result placed at another position.
func (r Result) At(position int) Result {
	r.position = position
	return r
}

// Summary counts succeeded and failed items.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
