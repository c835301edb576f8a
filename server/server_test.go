package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/billbatista/acasinha-approvals/category"
	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/expense"
	"github.com/billbatista/acasinha-approvals/session"
	"github.com/billbatista/acasinha-approvals/user"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	events []eventlogger.Event
}

func (c *captureRecorder) Log(e eventlogger.Event) {
	c.events = append(c.events, e)
}

func (c *captureRecorder) types() []string {
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	handler http.Handler
	events  *captureRecorder
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)
	events := &captureRecorder{}
	s := &Server{
		Engine:     expense.NewEngine(expense.NewMemoryRepository(expense.SampleGroups())),
		Users:      user.NewRepository(user.SampleUsers()),
		Categories: category.NewStore(),
		Sessions:   session.NewRepository(time.Hour),
		Events:     events,
		Logger:     logger,
	}
	env := &testEnv{handler: s.Router(), events: events}

	rec := env.do(t, http.MethodPost, "/login", map[string]string{"email": "jane@example.com", "password": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	env.token = body.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)

	t.Run("login requires both fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", map[string]string{"email": "jane@example.com"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login sets cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"a@b.c","password":"p"}`))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, session.CookieName, cookies[0].Name)

		me := httptest.NewRequest(http.MethodGet, "/me", nil)
		me.AddCookie(cookies[0])
		rec = httptest.NewRecorder()
		env.handler.ServeHTTP(rec, me)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"email":"a@b.c","display_name":"A"}`, rec.Body.String())
	})

	t.Run("protected routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logout ends session", func(t *testing.T) {
		other := newTestEnv(t)
		rec := other.do(t, http.MethodPost, "/logout", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = other.do(t, http.MethodGet, "/me", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, other.events.types(), eventlogger.TypeAdminLoggedOut)
	})
}

func TestExpenseRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("groups with totals", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/expenses?search=sarah", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		groups := decode[[]struct {
			EmployeeCode string `json:"employee_code"`
			Totals       struct {
				Total         string `json:"total"`
				ApprovedTotal string `json:"approved_total"`
				RejectedTotal string `json:"rejected_total"`
			} `json:"totals"`
		}](t, rec)
		require.Len(t, groups, 1)
		require.Equal(t, "EMP002", groups[0].EmployeeCode)
		require.Equal(t, "5500", groups[0].Totals.Total)
		require.Equal(t, "3000", groups[0].Totals.ApprovedTotal)
		require.Equal(t, "2500", groups[0].Totals.RejectedTotal)
	})

	t.Run("approve partial amount", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/expenses/7/approve", map[string]any{"approved_amount": 3500, "note": "capped"})
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[map[string]any](t, rec)
		require.Equal(t, "approved", got["status"])
		require.Equal(t, "3500", got["approved_amount"])
		require.Equal(t, "capped", got["note"])
		require.Contains(t, env.events.types(), eventlogger.TypeExpenseApproved)

		rec = env.do(t, http.MethodPost, "/expenses/7/reject", map[string]string{"note": "late"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("approve over requested", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/expenses/8/approve", map[string]any{"approved_amount": "601"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodGet, "/expenses/8", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[map[string]any](t, rec)
		require.Equal(t, "pending", got["status"])
		require.NotContains(t, got, "approved_amount")
	})

	t.Run("approve without amount", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/expenses/8/approve", map[string]any{"note": "ok"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reject", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/expenses/3/reject", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[map[string]any](t, rec)
		require.Equal(t, "rejected", got["status"])
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/expenses/404/reject", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodGet, "/expenses/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overview and pending", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/expenses/overview", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		overview := decode[map[string]string](t, rec)
		require.Equal(t, "28600", overview["total"])
		require.Equal(t, "21700", overview["approved_total"])
		require.Equal(t, "3300", overview["rejected_total"])

		rec = env.do(t, http.MethodGet, "/expenses/pending", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		pending := decode[[]map[string]any](t, rec)
		require.Len(t, pending, 1)
	})

	t.Run("breakdown", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/expenses/breakdown?by=category", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decode[[]map[string]string](t, rec)
		require.Len(t, rows, 5)

		rec = env.do(t, http.MethodGet, "/expenses/breakdown?by=project", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/users/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"total":7,"active":6,"managers":2,"pending":1}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/users", map[string]string{
		"employee_code": "EMP010",
		"name":          "Ravi Kumar",
		"designation":   "Engineer",
		"email":         "ravi@example.com",
		"phone":         "12345",
		"job_location":  "tokyo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[user.User](t, rec)
	require.Equal(t, user.ApprovalPending, created.Approval)

	rec = env.do(t, http.MethodPost, "/users", map[string]string{"name": "No Code"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/pending", nil)
	require.Len(t, decode[[]user.User](t, rec), 2)

	rec = env.do(t, http.MethodPost, "/users/8/reject", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ApprovalRejected, decode[user.User](t, rec).Approval)

	rec = env.do(t, http.MethodPost, "/users/8/approve", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/8/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ApprovalApproved, decode[user.User](t, rec).Approval)

	rec = env.do(t, http.MethodPut, "/users/8", map[string]string{
		"employee_code": "EMP010",
		"name":          "Ravi K.",
		"designation":   "Senior Engineer",
		"email":         "ravi@example.com",
		"phone":         "12345",
		"job_location":  "london",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Senior Engineer", decode[user.User](t, rec).Designation)

	rec = env.do(t, http.MethodPost, "/users/99/toggle", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Contains(t, env.events.types(), eventlogger.TypeUserToggled)
	require.Contains(t, env.events.types(), eventlogger.TypeUserRegistered)
}

func TestCategoryRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/categories/localConvenience/subcategories", map[string]any{"name": "Bike", "rate": 4.5})
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := decode[category.SubCategory](t, rec)
	require.Equal(t, "4.5", sub.Rate.String())

	rec = env.do(t, http.MethodPost, "/categories/food/subcategories", map[string]any{"name": "Lunch"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/categories/travel/subcategories", map[string]any{"name": " "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/categories/localConvenience/subcategories/"+sub.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/categories/localConvenience/subcategories/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]category.Category](t, rec)
	require.Len(t, list, 3)
	require.Empty(t, list[1].SubCategories)
}

func TestRecordCarriesActor(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/expenses/3/reject", map[string]string{"note": "dup"})
	require.Equal(t, http.StatusOK, rec.Code)

	last := env.events.events[len(env.events.events)-1]
	require.Equal(t, eventlogger.TypeExpenseRejected, last.Type)
	require.Equal(t, "jane@example.com", last.Metadata["actor"])
	require.NotEmpty(t, last.Metadata["request_id"])
}
