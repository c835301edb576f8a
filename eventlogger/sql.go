package eventlogger

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

type sqlEventLogger struct {
	db *sql.DB
}

func NewSqlEventLogger(db *sql.DB) *sqlEventLogger {
	return &sqlEventLogger{
		db: db,
	}
}

func (el *sqlEventLogger) Migrate(ctx context.Context) error {
	statement := `CREATE TABLE IF NOT EXISTS events (
		id             UUID PRIMARY KEY,
		event_type     TEXT NOT NULL,
		event_data     JSONB,
		event_metadata JSONB,
		created_at     TIMESTAMPTZ NOT NULL
	)`
	_, err := el.db.ExecContext(ctx, statement)
	return errors.Wrap(err, "migrating events")
}

func (el *sqlEventLogger) Save(ctx context.Context, e Event) error {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return errors.Wrap(err, "encoding event data")
	}
	jsonMetadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return errors.Wrap(err, "encoding event metadata")
	}
	statement := `INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = el.db.ExecContext(ctx, statement, e.ID, e.Type, jsonData, jsonMetadata, e.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "inserting %s event", e.Type)
	}

	return nil
}

func (el *sqlEventLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	query := `SELECT id, event_type, event_data, event_metadata, created_at FROM events WHERE event_type = $1 ORDER BY created_at`
	result, err := el.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	defer result.Close()

	events := make([]Event, 0)
	for result.Next() {
		var (
			event        Event
			jsonData     []byte
			jsonMetadata []byte
		)
		if err := result.Scan(&event.ID, &event.Type, &jsonData, &jsonMetadata, &event.CreatedAt); err != nil {
			return events, err
		}
		event.Data = json.RawMessage(jsonData)
		if err := json.Unmarshal(jsonMetadata, &event.Metadata); err != nil {
			return events, errors.Wrapf(err, "decoding metadata of event %s", event.ID)
		}

		events = append(events, event)
	}

	return events, result.Err()
}
