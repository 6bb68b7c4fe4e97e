package chi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/samber/lo"
	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	"github.com/kailas-cloud/esbridge/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/esbridge/internal/logger"
	searchuc "github.com/kailas-cloud/esbridge/internal/usecase/search"
)

// mountAPI registers the REST surface for arbitrary indices and documents.
func (s *Server) mountAPI(r gochi.Router) {
	r.Route("/indices/{index}", func(r gochi.Router) {
		r.Use(indexLogger)

		r.Put("/", s.CreateIndex)
		r.Get("/", s.GetIndex)
		r.Delete("/", s.DeleteIndex)
		r.Put("/mapping", s.PutMapping)

		r.Post("/documents", s.CreateDocument)
		r.Post("/documents/_bulk", s.BulkDocuments)
		r.Put("/documents/{id}", s.PutDocument)
		r.Get("/documents/{id}", s.GetDocument)
		r.Patch("/documents/{id}", s.PatchDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)

		r.Post("/_search", s.Search)
	})
}

// CreateIndex handles PUT /api/v1/indices/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	name, ok := bindPathString(w, r, "index")
	if !ok {
		return
	}

	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	fields, err := fieldsFromRequest(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.indices.Create(r.Context(), name, fields); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Acknowledged: true, Index: name})
}

// GetIndex handles GET /api/v1/indices/{index}. {index} may list several names.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	names, ok := bindIndexList(w, r)
	if !ok {
		return
	}

	infos, err := s.indices.Describe(r.Context(), names...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexInfosToResponse(infos))
}

// DeleteIndex handles DELETE /api/v1/indices/{index}. {index} may list several names.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	names, ok := bindIndexList(w, r)
	if !ok {
		return
	}

	if err := s.indices.Delete(r.Context(), names...); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

// PutMapping handles PUT /api/v1/indices/{index}/mapping.
func (s *Server) PutMapping(w http.ResponseWriter, r *http.Request) {
	name, ok := bindPathString(w, r, "index")
	if !ok {
		return
	}

	var req fieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	fields, err := fieldsFromRequest(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.indices.AddFields(r.Context(), name, fields); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true, Index: name})
}

// CreateDocument handles POST /api/v1/indices/{index}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	s.indexDocument(w, r, "")
}

// PutDocument handles PUT /api/v1/indices/{index}/documents/{id}.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPathString(w, r, "id")
	if !ok {
		return
	}
	s.indexDocument(w, r, id)
}

func (s *Server) indexDocument(w http.ResponseWriter, r *http.Request, id string) {
	index, ok := bindPathString(w, r, "index")
	if !ok {
		return
	}
	opts, ok := bindWriteOptions(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	ack, err := s.documents.Index(r.Context(), index, id, fields, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if ack.Created() {
		status = http.StatusCreated
	}
	writeJSON(w, status, ackToResponse(ack))
}

// GetDocument handles GET /api/v1/indices/{index}/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	index, id, ok := bindDocumentRef(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), index, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// PatchDocument handles PATCH /api/v1/indices/{index}/documents/{id}.
func (s *Server) PatchDocument(w http.ResponseWriter, r *http.Request) {
	index, id, ok := bindDocumentRef(w, r)
	if !ok {
		return
	}
	opts, ok := bindWriteOptions(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	ack, err := s.documents.Update(r.Context(), index, id, fields, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackToResponse(ack))
}

// DeleteDocument handles DELETE /api/v1/indices/{index}/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	index, id, ok := bindDocumentRef(w, r)
	if !ok {
		return
	}
	opts, ok := bindWriteOptions(w, r)
	if !ok {
		return
	}

	ack, err := s.documents.Delete(r.Context(), index, id, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackToResponse(ack))
}

// BulkDocuments handles POST /api/v1/indices/{index}/documents/_bulk[?refresh=].
func (s *Server) BulkDocuments(w http.ResponseWriter, r *http.Request) {
	index, ok := bindPathString(w, r, "index")
	if !ok {
		return
	}
	var refresh *string
	if err := runtime.BindQueryParameter("form", true, false, "refresh", r.URL.Query(), &refresh); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter refresh: "+err.Error())
		return
	}

	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "documents must not be empty")
		return
	}

	if !domdoc.ValidateRefresh(lo.FromPtr(refresh)) {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid refresh "+strconv.Quote(*refresh))
		return
	}

	results := s.batch.Index(r.Context(), index, bulkItemsToBatch(req.Documents), lo.FromPtr(refresh))
	writeJSON(w, http.StatusOK, batchResultsToResponse(results))
}

// Search handles POST /api/v1/indices/{index}/_search[?hits_only=true].
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	names, ok := bindIndexList(w, r)
	if !ok {
		return
	}
	var hitsOnly *bool
	if err := runtime.BindQueryParameter("form", true, false, "hits_only", r.URL.Query(), &hitsOnly); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter hits_only: "+err.Error())
		return
	}

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	q, err := parseQuery(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Query(r.Context(), names, q, searchuc.Options{From: req.From, Size: req.Size, Type: req.Type})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if hitsOnly != nil && *hitsOnly {
		writeJSON(w, http.StatusOK, hitsToResponse(result.Project(res)))
		return
	}
	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

// indexLogger tags the request logger with the raw {index} parameter.
func indexLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logpkg.With(r.Context(), zap.String("index", gochi.URLParam(r, "index")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bindPathString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter "+name+": "+err.Error())
		return "", false
	}
	return v, true
}

// bindIndexList binds a comma-separated {index} path parameter.
func bindIndexList(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var names []string
	err := runtime.BindStyledParameterWithOptions("simple", "index", gochi.URLParam(r, "index"), &names,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter index: "+err.Error())
		return nil, false
	}
	return names, true
}

func bindDocumentRef(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	index, ok := bindPathString(w, r, "index")
	if !ok {
		return "", "", false
	}
	id, ok := bindPathString(w, r, "id")
	if !ok {
		return "", "", false
	}
	return index, id, true
}

// bindWriteOptions reads refresh, if_seq_no and if_primary_term. The
// precondition applies only when both of the latter are present.
func bindWriteOptions(w http.ResponseWriter, r *http.Request) (domdoc.WriteOptions, bool) {
	var (
		refresh       *string
		ifSeqNo       *int64
		ifPrimaryTerm *int64
	)
	params := []struct {
		name string
		dest any
	}{
		{"refresh", &refresh},
		{"if_seq_no", &ifSeqNo},
		{"if_primary_term", &ifPrimaryTerm},
	}
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, r.URL.Query(), p.dest); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter "+p.name+": "+err.Error())
			return domdoc.WriteOptions{}, false
		}
	}

	var opts domdoc.WriteOptions
	if refresh != nil {
		opts.Refresh = *refresh
	}
	switch {
	case ifSeqNo != nil && ifPrimaryTerm != nil:
		opts.If = &domdoc.Precondition{SeqNo: *ifSeqNo, PrimaryTerm: *ifPrimaryTerm}
	case ifSeqNo != nil || ifPrimaryTerm != nil:
		writeError(w, http.StatusBadRequest, codeValidationFailed, "if_seq_no and if_primary_term must be used together")
		return domdoc.WriteOptions{}, false
	}
	return opts, true
}
