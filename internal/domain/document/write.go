package document

// Write results reported by the engine.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultDeleted = "deleted"
	ResultNoop    = "noop"
)

// Ack is the engine's acknowledgement of a single document write.
type Ack struct {
	Index       string
	ID          string
	Version     int64
	SeqNo       int64
	PrimaryTerm int64
	Result      string
}

// Created reports whether the write created a new document.
func (a Ack) Created() bool { return a.Result == ResultCreated }

// Precondition guards a write with the sequence number and primary term
// last seen by the caller.
type Precondition struct {
	SeqNo       int64
	PrimaryTerm int64
}

// WriteOptions tunes a single document write.
type WriteOptions struct {
	// If is nil for an unconditional write.
	If *Precondition
	// Refresh is "", "true", "false" or "wait_for".
	Refresh string
}

// ValidateRefresh checks a refresh policy value.
func ValidateRefresh(v string) bool {
	switch v {
	case "", "true", "false", "wait_for":
		return true
	default:
		return false
	}
}
