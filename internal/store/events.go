package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordEvent inserts e. An empty ID gets a new UUID and a zero OccurredAt
// is set to now.
func (s *Store) RecordEvent(e Event) (*Event, error) {
	if e.Type == "" {
		return nil, fmt.Errorf("record event: empty type")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	meta, err := encodeMetadata(e.Metadata)
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO statistics_events (id, event_type, occurred_at, duration_seconds, metadata)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.OccurredAt.UTC().Format(time.RFC3339), e.Duration, meta,
	)
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	return s.GetEvent(e.ID)
}

func (s *Store) GetEvent(id string) (*Event, error) {
	e := &Event{}
	var eventType, occurredAt, meta string

	err := s.db.QueryRow(
		`SELECT id, event_type, occurred_at, duration_seconds, metadata
		 FROM statistics_events WHERE id = ?`, id,
	).Scan(&e.ID, &eventType, &occurredAt, &e.Duration, &meta)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	e.Type = EventType(eventType)
	e.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt)
	e.Metadata = decodeMetadata(meta)
	return e, nil
}

// ListEvents returns matching events, newest first.
func (s *Store) ListEvents(f EventFilter) ([]Event, error) {
	query := `SELECT id, event_type, occurred_at, duration_seconds, metadata FROM statistics_events WHERE 1=1`
	var args []any

	if f.Type != nil {
		query += ` AND event_type = ?`
		args = append(args, string(*f.Type))
	}
	if f.From != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND occurred_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY occurred_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var eventType, occurredAt, meta string
		if err := rows.Scan(&e.ID, &eventType, &occurredAt, &e.Duration, &meta); err != nil {
			return nil, err
		}
		e.Type = EventType(eventType)
		e.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt)
		e.Metadata = decodeMetadata(meta)
		events = append(events, e)
	}
	return events, rows.Err()
}

func encodeMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func decodeMetadata(raw string) map[string]string {
	m := map[string]string{}
	_ = json.Unmarshal([]byte(raw), &m)
	return m
}
