package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "eschelp.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO feedback (id, query, answer, helpful) VALUES ('f1', 'q', 'a', 1)`); err != nil {
		t.Errorf("schema not applied: %v", err)
	}
}

func TestSaveAndLoadTranscript(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.SaveMessage(ctx, "sess-1", "user", "printer not printing"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := d.SaveMessage(ctx, "sess-1", "assistant", "Restart the spooler."); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := d.SaveMessage(ctx, "sess-2", "user", "unrelated"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	msgs, err := d.Messages(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("message order wrong: %+v", msgs)
	}
	if msgs[1].Content != "Restart the spooler." {
		t.Errorf("Content = %q", msgs[1].Content)
	}
}

func TestSaveMessageRejectsBadRole(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer d.Close()

	if err := d.SaveMessage(context.Background(), "sess-1", "robot", "hi"); err == nil {
		t.Error("expected CHECK constraint failure for unknown role")
	}
}
