package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repository struct {
	mu       sync.Mutex
	sessions map[string]*Session
	duration time.Duration
	now      func() time.Time
}

func NewRepository(duration time.Duration) *repository {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &repository{
		sessions: make(map[string]*Session),
		duration: duration,
		now:      time.Now,
	}
}

func (r *repository) Login(_ context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrBlankCredentials
	}

	token, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	now := r.now()
	session := &Session{
		ID:        uuid.New(),
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(r.duration),
		CreatedAt: now,
	}

	r.mu.Lock()
	r.pruneExpired(now)
	r.sessions[token] = session
	r.mu.Unlock()

	cp := *session
	return &cp, nil
}

// pruneExpired must be called with the lock held.
func (r *repository) pruneExpired(now time.Time) {
	for token, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, token)
		}
	}
}

// GetByToken retrieves a session by token and validates it's not expired
func (r *repository) GetByToken(_ context.Context, token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	if r.now().After(session.ExpiresAt) {
		delete(r.sessions, token)
		return nil, ErrExpiredSession
	}

	cp := *session
	return &cp, nil
}

// Delete removes a session (logout)
func (r *repository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}

func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
