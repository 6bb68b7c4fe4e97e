package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esbridge/internal/domain"
	logpkg "github.com/kailas-cloud/esbridge/internal/logger"
	"github.com/kailas-cloud/esbridge/internal/metrics"
	batchuc "github.com/kailas-cloud/esbridge/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/esbridge/internal/usecase/document"
	healthuc "github.com/kailas-cloud/esbridge/internal/usecase/health"
	indexuc "github.com/kailas-cloud/esbridge/internal/usecase/index"
	searchuc "github.com/kailas-cloud/esbridge/internal/usecase/search"
)

// maxBodyBytes caps request bodies. Bulk submissions are the largest.
const maxBodyBytes = 16 << 20

// errorCode is the machine-readable code of an error response.
type errorCode string

// Error codes returned in {"code","message"} bodies.
const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeIndexNotFound    errorCode = "index_not_found"
	codeDocumentNotFound errorCode = "document_not_found"
	codeNoRecords        errorCode = "no_records"
	codeIndexExists      errorCode = "index_already_exists"
	codeConflictingType  errorCode = "conflicting_type"
	codeVersionConflict  errorCode = "version_conflict"
	codeEngineDown       errorCode = "engine_unavailable"
	codeInternal         errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the tutorial routes and the REST API over chi.
type Server struct {
	indices       *indexuc.Service
	documents     *documentuc.Service
	batch         *batchuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	indices *indexuc.Service,
	documents *documentuc.Service,
	batch *batchuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indices:   indices,
		documents: documents,
		batch:     batch,
		search:    search,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		versionConflictHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeIndexNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrNoRecords, http.StatusNotFound, codeNoRecords),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeIndexExists),
		sentinelHandler(domain.ErrConflictingType, http.StatusConflict, codeConflictingType),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrConnection, http.StatusBadGateway, codeEngineDown),
	}
	return s
}

// Handler builds the router with the middleware chain.
func (s *Server) Handler() http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	s.mountTutorial(r)
	r.Route("/api/v1", s.mountAPI)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation failures carry their detail since it only describes the request.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrNoRecords,
		domain.ErrAlreadyExists,
		domain.ErrConflictingType,
		domain.ErrVersionConflict,
		domain.ErrConnection,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// versionConflictHandler handles ErrVersionConflict with the losing document reference.
func versionConflictHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrVersionConflict) {
		return false
	}
	var vce *domain.VersionConflictError
	if errors.As(err, &vce) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":    codeVersionConflict,
			"message": msg,
			"index":   vce.Index,
			"id":      vce.ID,
		})
		return true
	}
	writeError(w, http.StatusConflict, codeVersionConflict, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// errorCodeOf maps a per-item error to its response code.
func errorCodeOf(err error) errorCode {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return codeIndexNotFound
	case errors.Is(err, domain.ErrDocumentNotFound):
		return codeDocumentNotFound
	case errors.Is(err, domain.ErrVersionConflict):
		return codeVersionConflict
	case errors.Is(err, domain.ErrConflictingType):
		return codeConflictingType
	case errors.Is(err, domain.ErrInvalidRequest):
		return codeValidationFailed
	case errors.Is(err, domain.ErrConnection):
		return codeEngineDown
	default:
		return codeInternal
	}
}
