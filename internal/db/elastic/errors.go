package elastic

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/esbridge/internal/db"
)

// Engine error types with a dedicated sentinel.
const (
	typeAlreadyExists   = "resource_already_exists_exception"
	typeIndexNotFound   = "index_not_found_exception"
	typeDocumentMissing = "document_missing_exception"
	typeVersionConflict = "version_conflict_engine_exception"
	typeIllegalArgument = "illegal_argument_exception"
)

const maxErrorBody = 64 << 10

type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// decodeError turns a non-2xx response into an *db.EngineError wrapped with op.
// documentScoped marks endpoints where a bare 404 means the document is absent.
func decodeError(op string, res *esapi.Response, documentScoped bool) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	var body errorBody
	var cause errorCause
	if json.Unmarshal(raw, &body) == nil && len(body.Error) > 0 {
		if json.Unmarshal(body.Error, &cause) != nil {
			// some endpoints report a plain string
			var msg string
			if json.Unmarshal(body.Error, &msg) == nil {
				cause.Reason = msg
			}
		}
	}
	if cause.Type == "" && cause.Reason == "" {
		cause.Reason = strings.TrimSpace(string(raw))
		if documentScoped && res.StatusCode == http.StatusNotFound {
			cause.Reason = "document not found"
		}
	}

	kind := classify(res.StatusCode, cause, documentScoped)
	return &db.Error{Op: op, Err: db.NewEngineError(res.StatusCode, cause.Type, cause.Reason, kind)}
}

func classify(status int, cause errorCause, documentScoped bool) error {
	switch cause.Type {
	case typeAlreadyExists:
		return db.ErrIndexExists
	case typeIndexNotFound:
		return db.ErrIndexNotFound
	case typeDocumentMissing:
		return db.ErrDocumentNotFound
	case typeVersionConflict:
		return db.ErrVersionConflict
	case typeIllegalArgument:
		if isTypeChange(cause.Reason) {
			return db.ErrConflictingType
		}
	}

	switch {
	case status == http.StatusNotFound && documentScoped:
		return db.ErrDocumentNotFound
	case status == http.StatusNotFound:
		return db.ErrIndexNotFound
	case status == http.StatusConflict:
		return db.ErrVersionConflict
	case status >= 400 && status < 500:
		return db.ErrBadRequest
	default:
		return nil
	}
}

// isTypeChange matches "mapper [x] cannot be changed from type [a] to [b]" style reasons.
func isTypeChange(reason string) bool {
	r := strings.ToLower(reason)
	return strings.Contains(r, "mapper [") || strings.Contains(r, "cannot be changed from type")
}

func transportError(op string, err error) error {
	return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrConnection, err)}
}
