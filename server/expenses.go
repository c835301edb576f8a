package server

import (
	"net/http"
	"strconv"

	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/expense"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type expenseGroupView struct {
	expense.UserExpenseGroup
	Totals expense.Totals `json:"totals"`
}

type approveRequest struct {
	Amount *decimal.Decimal `json:"approved_amount"`
	Note   string           `json:"note"`
}

type rejectRequest struct {
	Note string `json:"note"`
}

func (s *Server) listExpenseGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.Engine.Groups(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views := make([]expenseGroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, expenseGroupView{UserExpenseGroup: g, Totals: g.Totals()})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) expenseOverview(w http.ResponseWriter, r *http.Request) {
	totals, err := s.Engine.Overview(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) pendingExpenses(w http.ResponseWriter, r *http.Request) {
	pending, err := s.Engine.Pending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) expenseBreakdown(w http.ResponseWriter, r *http.Request) {
	by := expense.GroupBy(r.URL.Query().Get("by"))
	if by == "" {
		by = expense.ByYear
	}
	rows, err := s.Engine.Breakdown(r.Context(), by)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	exp, err := s.Engine.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) approveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Amount == nil {
		s.fail(w, r, errors.Wrap(errBadRequest, "approved_amount is required"))
		return
	}

	exp, err := s.Engine.Approve(r.Context(), id, *req.Amount, req.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeExpenseApproved, map[string]string{
		"expense_id":       strconv.FormatInt(exp.ID, 10),
		"employee_code":    exp.EmployeeCode,
		"requested_amount": exp.RequestedAmount.String(),
		"approved_amount":  req.Amount.String(),
		"note":             req.Note,
	})
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) rejectExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req rejectRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	exp, err := s.Engine.Reject(r.Context(), id, req.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, eventlogger.TypeExpenseRejected, map[string]string{
		"expense_id":       strconv.FormatInt(exp.ID, 10),
		"employee_code":    exp.EmployeeCode,
		"requested_amount": exp.RequestedAmount.String(),
		"note":             req.Note,
	})
	writeJSON(w, http.StatusOK, exp)
}
