// Package feedback records whether answers actually helped, so weak
// knowledge-base articles can be found and rewritten.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kwhalen/escalation-helper/internal/db"
)

// Entry is one recorded piece of feedback on an answer.
type Entry struct {
	ID        string
	Timestamp time.Time
	SessionID string
	Query     string
	Answer    string
	Helpful   bool
	Comment   string
}

// Store persists feedback entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record saves a feedback entry and returns its generated ID.
func (s *Store) Record(ctx context.Context, sessionID, query, answer string, helpful bool, comment string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, session_id, query, answer, helpful, comment) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sessionID, query, answer, boolToInt(helpful), comment)
	if err != nil {
		return "", fmt.Errorf("record feedback: %w", err)
	}
	return id, nil
}

// Recent returns the most recent feedback entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, session_id, query, answer, helpful, comment FROM feedback
		 ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var helpful int
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.SessionID, &e.Query, &e.Answer, &helpful, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		e.Helpful = helpful == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UnhelpfulRate reports the fraction of feedback marked not helpful, or 0
// when no feedback exists.
func (s *Store) UnhelpfulRate(ctx context.Context) (float64, error) {
	var total, unhelpful int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE helpful = 0) FROM feedback`).Scan(&total, &unhelpful)
	if err != nil {
		return 0, fmt.Errorf("feedback stats: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(unhelpful) / float64(total), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
