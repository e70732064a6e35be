// Package journal is an append-only record of learner events.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"
)

const (
	TypeMediaCompleted = "media.completed"
	TypeQuizSubmitted  = "quiz.submitted"
)

type Event struct {
	Seq       int64
	SessionID string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Recorder appends events. Callers treat failures as non-fatal.
type Recorder interface {
	Append(ctx context.Context, e Event) error
}

// NewEvent marshals data into an Event. Marshal failures leave DataJSON as "{}".
func NewEvent(sessionID, typ, key string, data any) Event {
	e := Event{SessionID: sessionID, Type: typ, Key: key, DataJSON: "{}"}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			e.DataJSON = string(b)
		}
	}
	return e
}

type Nop struct{}

func (Nop) Append(context.Context, Event) error { return nil }

type SQLRepo struct{ db *sql.DB }

func NewSQLRepo(db *sql.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (session_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SessionID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// List returns a session's events in append order.
func (r *SQLRepo) List(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, session_id, typ, key, data, created_at FROM event_log
		 WHERE session_id=$1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SessionID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Memory keeps events in process; used in standalone preview without a SQL store.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Append(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Seq = int64(len(m.events) + 1)
	e.CreatedAt = time.Now().Unix()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
