package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/billbatista/acasinha-approvals/category"
	"github.com/billbatista/acasinha-approvals/expense"
	"github.com/billbatista/acasinha-approvals/session"
	"github.com/billbatista/acasinha-approvals/user"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

var errBadRequest = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.Wrap(errBadRequest, "id must be an integer")
	}
	return id, nil
}

func statusFor(err error) int {
	var missing user.MissingFieldError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrUnknownGrouping),
		errors.Is(err, session.ErrBlankCredentials),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, category.ErrInvalidRate),
		errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.Is(err, expense.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, category.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, expense.ErrInvalidState),
		errors.Is(err, user.ErrInvalidState),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, user.ErrCodeExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.Logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
