package eventlogger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeAdminLoggedIn      = "admin.logged_in"
	TypeAdminLoggedOut     = "admin.logged_out"
	TypeExpenseApproved    = "expense.approved"
	TypeExpenseRejected    = "expense.rejected"
	TypeUserRegistered     = "user.registered"
	TypeUserUpdated        = "user.updated"
	TypeUserApproved       = "user.approved"
	TypeUserRejected       = "user.rejected"
	TypeUserToggled        = "user.approval_toggled"
	TypeSubCategoryAdded   = "category.subcategory_added"
	TypeSubCategoryRemoved = "category.subcategory_removed"
)

type Event struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	Type      string            `json:"event_type,omitempty"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithActor records who triggered the event in the metadata.
func WithActor(email string) EventOption {
	return func(e *Event) {
		e.Metadata["actor"] = email
	}
}

func WithMetadata(metadata map[string]string) EventOption {
	return func(e *Event) {
		for k, v := range metadata {
			e.Metadata[k] = v
		}
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

type EventLogger interface {
	Save(ctx context.Context, e Event) error
	GetByType(ctx context.Context, eventType string) ([]Event, error)
}

// Recorder accepts events without blocking the caller.
type Recorder interface {
	Log(event Event)
}

type memoryEventLogger struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryEventLogger() *memoryEventLogger {
	return &memoryEventLogger{}
}

func (m *memoryEventLogger) Save(_ context.Context, e Event) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	return nil
}

func (m *memoryEventLogger) GetByType(_ context.Context, eventType string) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]Event, 0)
	for _, e := range m.events {
		if e.Type == eventType {
			events = append(events, e)
		}
	}
	return events, nil
}
