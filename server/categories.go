package server

import (
	"net/http"

	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type subCategoryRequest struct {
	Name string           `json:"name"`
	Rate *decimal.Decimal `json:"rate"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Categories.List())
}

func (s *Server) addSubCategory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req subCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sub, err := s.Categories.AddSubCategory(key, req.Name, req.Rate)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeSubCategoryAdded, map[string]string{
		"category":       key,
		"subcategory_id": sub.ID.String(),
		"name":           sub.Name,
	})
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) removeSubCategory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, errors.Wrap(errBadRequest, "id must be a uuid"))
		return
	}

	if err := s.Categories.RemoveSubCategory(key, id); err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeSubCategoryRemoved, map[string]string{
		"category":       key,
		"subcategory_id": id.String(),
	})
	w.WriteHeader(http.StatusNoContent)
}
