package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/osaleh99/doc-chat/internal/apperr"
)

func TestExportHistoryEmpty(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.ExportHistory(context.Background(), "s1", false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportHistoryMarkdown(t *testing.T) {
	engine, mgr, _ := newTestEngine(t)
	ingestDoc(t, mgr, "session-1234567890", "doc.txt", "some content")

	if _, err := engine.Query(context.Background(), "session-1234567890", "a question?"); err != nil {
		t.Fatalf("Query: %v", err)
	}

	export, err := engine.ExportHistory(context.Background(), "session-1234567890", false)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if export.MessageCount != 1 {
		t.Errorf("message count: %d", export.MessageCount)
	}
	if export.Filename != "chat-history-session-.md" {
		t.Errorf("filename: %q", export.Filename)
	}
	for _, want := range []string{"Chat History Export", "a question?", "the answer", "Total Messages: 1"} {
		if !strings.Contains(export.Content, want) {
			t.Errorf("export missing %q", want)
		}
	}
}

func TestExportHistoryHTML(t *testing.T) {
	engine, mgr, _ := newTestEngine(t)
	ingestDoc(t, mgr, "s1", "doc.txt", "some content")

	if _, err := engine.Query(context.Background(), "s1", "a question?"); err != nil {
		t.Fatalf("Query: %v", err)
	}

	export, err := engine.ExportHistory(context.Background(), "s1", true)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if !strings.HasSuffix(export.Filename, ".html") {
		t.Errorf("filename: %q", export.Filename)
	}
	if !strings.Contains(export.Content, "<h1") {
		t.Errorf("expected rendered HTML, got:\n%s", export.Content)
	}
}
