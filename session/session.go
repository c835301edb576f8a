package session

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidSession   = errors.New("invalid session")
	ErrExpiredSession   = errors.New("session expired")
	ErrBlankCredentials = errors.New("email and password are required")
)

const (
	DefaultDuration = 7 * 24 * time.Hour
	CookieName      = "admin_session"
)

// Session is a logged-in admin. Login is a mock: any non-empty email and
// password pair is accepted and only the email is kept.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// DisplayName turns "jane.doe@example.com" into "Jane.doe".
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Admin"
	}
	r, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(r)) + local[size:]
}
