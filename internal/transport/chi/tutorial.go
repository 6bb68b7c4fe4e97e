package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	searchuc "github.com/kailas-cloud/esbridge/internal/usecase/search"
)

// mountTutorial registers the GET routes that drive the user index.
func (s *Server) mountTutorial(r gochi.Router) {
	r.Get("/index", s.CreateUserIndex)
	r.Get("/get-index", s.GetUserIndex)
	r.Get("/delete-index", s.DeleteUserIndex)
	r.Get("/update-index", s.UpdateUserIndex)

	r.Get("/document", s.IndexFirstUser)
	r.Get("/bulk-documents", s.IndexAllUsers)
	r.Get("/get-document", s.GetFirstUser)
	r.Get("/update-document", s.UpdateFirstUser)
	r.Get("/delete-document", s.DeleteFirstUser)

	r.Get("/find/{terms}", s.FindUsers)
	r.Get("/find/{terms}/result", s.FindUserHits)
	r.Get("/find-bool/{terms}", s.FindUsersBool)
}

// CreateUserIndex handles GET /index.
func (s *Server) CreateUserIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.indices.CreateDefault(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true, Index: s.indices.DefaultIndex()})
}

// GetUserIndex handles GET /get-index.
func (s *Server) GetUserIndex(w http.ResponseWriter, r *http.Request) {
	infos, err := s.indices.Describe(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexInfosToResponse(infos))
}

// DeleteUserIndex handles GET /delete-index.
func (s *Server) DeleteUserIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.indices.Delete(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

// UpdateUserIndex handles GET /update-index.
func (s *Server) UpdateUserIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.indices.AddAge(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Acknowledged: true})
}

// IndexFirstUser handles GET /document.
func (s *Server) IndexFirstUser(w http.ResponseWriter, r *http.Request) {
	ack, err := s.documents.IndexFirstUser(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackToResponse(ack))
}

// IndexAllUsers handles GET /bulk-documents.
func (s *Server) IndexAllUsers(w http.ResponseWriter, r *http.Request) {
	results, err := s.batch.IndexUsers(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResultsToResponse(results))
}

// GetFirstUser handles GET /get-document.
func (s *Server) GetFirstUser(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.GetFirstUser(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// UpdateFirstUser handles GET /update-document.
func (s *Server) UpdateFirstUser(w http.ResponseWriter, r *http.Request) {
	ack, err := s.documents.UpdateFirstUser(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackToResponse(ack))
}

// DeleteFirstUser handles GET /delete-document.
func (s *Server) DeleteFirstUser(w http.ResponseWriter, r *http.Request) {
	ack, err := s.documents.DeleteFirstUser(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackToResponse(ack))
}

// FindUsers handles GET /find/{terms}.
func (s *Server) FindUsers(w http.ResponseWriter, r *http.Request) {
	terms, ok := bindPathString(w, r, "terms")
	if !ok {
		return
	}

	res, err := s.search.Match(r.Context(), s.indices.DefaultIndex(), searchuc.EmailField, terms, searchuc.Options{})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

// FindUserHits handles GET /find/{terms}/result.
func (s *Server) FindUserHits(w http.ResponseWriter, r *http.Request) {
	terms, ok := bindPathString(w, r, "terms")
	if !ok {
		return
	}

	hits, err := s.search.MatchResults(r.Context(), s.indices.DefaultIndex(), searchuc.EmailField, terms, searchuc.Options{})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hitsToResponse(hits))
}

// FindUsersBool handles GET /find-bool/{terms}?name=&age=.
func (s *Server) FindUsersBool(w http.ResponseWriter, r *http.Request) {
	terms, ok := bindPathString(w, r, "terms")
	if !ok {
		return
	}

	var name *string
	if err := runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter name: "+err.Error())
		return
	}
	var age *int
	if err := runtime.BindQueryParameter("form", true, false, "age", r.URL.Query(), &age); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter age: "+err.Error())
		return
	}

	c := searchuc.Constraints{Age: age}
	if name != nil {
		c.Name = *name
	}

	res, err := s.search.Bool(r.Context(), s.indices.DefaultIndex(), terms, c, searchuc.Options{})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}
