package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptMessage is one stored conversation message.
type TranscriptMessage struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// EnsureSession creates the chat session row if it does not already exist.
func (d *DB) EnsureSession(ctx context.Context, sessionID string) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO chat_sessions (id) VALUES (?) ON CONFLICT(id) DO UPDATE SET updated_at = datetime('now')`,
		sessionID)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

// SaveMessage appends a message to a session's transcript.
func (d *DB) SaveMessage(ctx context.Context, sessionID, role, content string) error {
	if err := d.EnsureSession(ctx, sessionID); err != nil {
		return err
	}
	_, err := d.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), sessionID, role, content)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// Messages returns a session's transcript in chronological order.
func (d *DB) Messages(ctx context.Context, sessionID string) ([]TranscriptMessage, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM chat_messages
		 WHERE session_id = ? ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []TranscriptMessage
	for rows.Next() {
		var m TranscriptMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
