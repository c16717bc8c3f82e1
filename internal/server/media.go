package server

import (
	"net/http"
	"strconv"

	"github.com/lepinkainen/mediacat/internal/catalog"
	"github.com/lepinkainen/mediacat/internal/errors"
)

type listResponse struct {
	Items []catalog.Item `json:"items"`
}

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.catalog.List(r.Context(), catalog.ListOptions{
		Query:  q.Get("q"),
		SortBy: q.Get("sort_by"),
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if items == nil {
		items = []catalog.Item{}
	}
	s.writeJSON(w, r, http.StatusOK, listResponse{Items: items})
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	item, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	var item catalog.Item
	if !s.decodeJSON(w, r, &item) {
		return
	}
	item.ID = 0

	if _, err := s.catalog.Create(r.Context(), &item); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/media/"+strconv.FormatInt(item.ID, 10))
	s.writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var item catalog.Item
	if !s.decodeJSON(w, r, &item) {
		return
	}
	item.ID = id

	if err := s.catalog.Update(r.Context(), &item); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	updated, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, http.StatusBadRequest, "invalid media item id")
		return 0, false
	}
	return id, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.IsValidationError(err):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.IsNotFound(err):
		s.writeError(w, r, http.StatusNotFound, "media item not found")
	default:
		s.log(r).Error("Catalog operation failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
