package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/user"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) pendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.ListPending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) userOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.Users.Overview(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var d user.Details
	if err := decodeJSON(r, &d); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.Users.Register(r.Context(), d)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeUserRegistered, map[string]string{
		"user_id":       strconv.FormatInt(u.ID, 10),
		"employee_code": u.EmployeeCode,
		"email":         u.Email,
	})
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var d user.Details
	if err := decodeJSON(r, &d); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.Users.Update(r.Context(), id, d)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeUserUpdated, map[string]string{
		"user_id": strconv.FormatInt(u.ID, 10),
		"name":    u.Name,
	})
	writeJSON(w, http.StatusOK, u)
}

// userDecision adapts one of the approval methods of user.Repository into a handler.
func (s *Server) userDecision(eventType string, decide func(context.Context, int64) (*user.User, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		u, err := decide(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		s.record(r, eventType, map[string]string{
			"user_id":  strconv.FormatInt(u.ID, 10),
			"approval": string(u.Approval),
		})
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) approveUser(w http.ResponseWriter, r *http.Request) {
	s.userDecision(eventlogger.TypeUserApproved, s.Users.Approve)(w, r)
}

func (s *Server) rejectUser(w http.ResponseWriter, r *http.Request) {
	s.userDecision(eventlogger.TypeUserRejected, s.Users.Reject)(w, r)
}

func (s *Server) toggleUser(w http.ResponseWriter, r *http.Request) {
	s.userDecision(eventlogger.TypeUserToggled, s.Users.Toggle)(w, r)
}
