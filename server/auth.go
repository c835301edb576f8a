package server

import (
	"net/http"

	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/middleware"
	"github.com/billbatista/acasinha-approvals/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, err := s.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})

	s.Events.Log(eventlogger.NewEvent(
		eventlogger.WithType(eventlogger.TypeAdminLoggedIn),
		eventlogger.WithActor(sess.Email),
		eventlogger.WithData(map[string]string{"session_id": sess.ID.String()}),
	))

	writeJSON(w, http.StatusOK, map[string]any{
		"token": sess.Token,
		"admin": meResponse{Email: sess.Email, DisplayName: session.DisplayName(sess.Email)},
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := r.Context().Value(middleware.TokenKey).(string); ok {
		if err := s.Sessions.Delete(r.Context(), token); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	s.record(r, eventlogger.TypeAdminLoggedOut, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetAdminEmail(r.Context())
	writeJSON(w, http.StatusOK, meResponse{Email: email, DisplayName: session.DisplayName(email)})
}
