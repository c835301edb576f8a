package server

import (
	"net/http"

	"github.com/billbatista/acasinha-approvals/category"
	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/expense"
	"github.com/billbatista/acasinha-approvals/middleware"
	"github.com/billbatista/acasinha-approvals/session"
	"github.com/billbatista/acasinha-approvals/user"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	Engine     *expense.Engine
	Users      user.Repository
	Categories *category.Store
	Sessions   session.Repository
	Events     eventlogger.Recorder
	Logger     *log.Logger
}

func (s *Server) record(r *http.Request, eventType string, data map[string]string) {
	email, _ := middleware.GetAdminEmail(r.Context())
	s.Events.Log(eventlogger.NewEvent(
		eventlogger.WithType(eventType),
		eventlogger.WithData(data),
		eventlogger.WithActor(email),
		eventlogger.WithMetadata(map[string]string{
			"request_id": chimiddleware.GetReqID(r.Context()),
		}),
	))
}

func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.AuthMiddleware(s.Sessions))
	router.Use(middleware.Logger(s.Logger))
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Post("/login", s.login)

	// Protected routes - require authentication
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/logout", s.logout)
		r.Get("/me", s.me)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Post("/", s.registerUser)
			r.Get("/overview", s.userOverview)
			r.Get("/pending", s.pendingUsers)
			r.Put("/{id}", s.updateUser)
			r.Post("/{id}/approve", s.approveUser)
			r.Post("/{id}/reject", s.rejectUser)
			r.Post("/{id}/toggle", s.toggleUser)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.listExpenseGroups)
			r.Get("/overview", s.expenseOverview)
			r.Get("/pending", s.pendingExpenses)
			r.Get("/breakdown", s.expenseBreakdown)
			r.Get("/{id}", s.getExpense)
			r.Post("/{id}/approve", s.approveExpense)
			r.Post("/{id}/reject", s.rejectExpense)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.listCategories)
			r.Post("/{key}/subcategories", s.addSubCategory)
			r.Delete("/{key}/subcategories/{id}", s.removeSubCategory)
		})
	})

	return router
}
