package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndListDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []NewDocument{
		{Filename: "a.txt", Chunks: []string{"first chunk", "second chunk"}},
		{Filename: "b.txt", Chunks: []string{"solo"}},
	}
	if err := store.CreateDocuments(ctx, "s1", docs); err != nil {
		t.Fatalf("CreateDocuments: %v", err)
	}

	listed, err := store.ListDocuments(ctx, "s1")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(listed))
	}
	if listed[0].Filename != "a.txt" || listed[0].NumChunks != 2 {
		t.Errorf("first document: %+v", listed[0])
	}
	if listed[1].Filename != "b.txt" || listed[1].NumChunks != 1 {
		t.Errorf("second document: %+v", listed[1])
	}
	if listed[0].UploadTime.IsZero() {
		t.Error("upload time not recorded")
	}

	count, err := store.CountDocuments(ctx, "s1")
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestDocumentsAreSessionScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateDocuments(ctx, "s1", []NewDocument{{Filename: "a.txt"}}); err != nil {
		t.Fatalf("CreateDocuments: %v", err)
	}

	other, err := store.ListDocuments(ctx, "s2")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no documents for s2, got %d", len(other))
	}

	docs, _ := store.ListDocuments(ctx, "s1")
	if _, err := store.GetDocument(ctx, "s2", docs[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("cross-session GetDocument: expected ErrNotFound, got %v", err)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), "s1", 999)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDocumentCascadesChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateDocuments(ctx, "s1", []NewDocument{
		{Filename: "a.txt", Chunks: []string{"one", "two"}},
	}); err != nil {
		t.Fatalf("CreateDocuments: %v", err)
	}
	docs, _ := store.ListDocuments(ctx, "s1")

	chunks, err := store.ChunksForDocument(ctx, docs[0].ID)
	if err != nil {
		t.Fatalf("ChunksForDocument: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if err := store.DeleteDocument(ctx, docs[0].ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	chunks, err = store.ChunksForDocument(ctx, docs[0].ID)
	if err != nil {
		t.Fatalf("ChunksForDocument after delete: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected chunks to cascade, got %d rows", len(chunks))
	}
}

func TestFilenamesDeduplicated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batches := [][]NewDocument{
		{{Filename: "report.txt"}, {Filename: "notes.txt"}},
		{{Filename: "report.txt"}},
	}
	for _, b := range batches {
		if err := store.CreateDocuments(ctx, "s1", b); err != nil {
			t.Fatalf("CreateDocuments: %v", err)
		}
	}

	names, err := store.Filenames(ctx, "s1")
	if err != nil {
		t.Fatalf("Filenames: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 distinct filenames, got %v", names)
	}
	if names[0] != "report.txt" || names[1] != "notes.txt" {
		t.Errorf("expected first-seen order, got %v", names)
	}
}

func TestQueryLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendQueryLog(ctx, "s1", "q1", "a1"); err != nil {
		t.Fatalf("AppendQueryLog: %v", err)
	}
	if err := store.AppendQueryLog(ctx, "s1", "q2", "a2"); err != nil {
		t.Fatalf("AppendQueryLog: %v", err)
	}
	if err := store.AppendQueryLog(ctx, "other", "q3", "a3"); err != nil {
		t.Fatalf("AppendQueryLog: %v", err)
	}

	logs, err := store.QueryLogs(ctx, "s1")
	if err != nil {
		t.Fatalf("QueryLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[0].Question != "q1" || logs[0].Response != "a1" {
		t.Errorf("first entry: %+v", logs[0])
	}
	if logs[1].Question != "q2" {
		t.Errorf("second entry: %+v", logs[1])
	}

	n, err := store.CountQueryLogs(ctx, "s1")
	if err != nil {
		t.Fatalf("CountQueryLogs: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}

	deleted, err := store.ClearQueryLogs(ctx, "s1")
	if err != nil {
		t.Fatalf("ClearQueryLogs: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 cleared, got %d", deleted)
	}

	logs, _ = store.QueryLogs(ctx, "other")
	if len(logs) != 1 {
		t.Errorf("other session's logs should survive, got %d", len(logs))
	}
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateDocuments(ctx, "s1", []NewDocument{{Filename: "a.txt", Chunks: []string{"x"}}}); err != nil {
		t.Fatalf("CreateDocuments: %v", err)
	}
	if err := store.AppendQueryLog(ctx, "s1", "q", "a"); err != nil {
		t.Fatalf("AppendQueryLog: %v", err)
	}

	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	docs, _ := store.ListDocuments(ctx, "s1")
	logs, _ := store.QueryLogs(ctx, "s1")
	if len(docs) != 0 || len(logs) != 0 {
		t.Errorf("expected empty session after delete, got %d docs, %d logs", len(docs), len(logs))
	}
}

func TestStaleSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateDocuments(ctx, "old", []NewDocument{{Filename: "a.txt"}}); err != nil {
		t.Fatalf("CreateDocuments: %v", err)
	}
	if err := store.AppendQueryLog(ctx, "logonly", "q", "a"); err != nil {
		t.Fatalf("AppendQueryLog: %v", err)
	}

	// Everything was just written, so nothing precedes a cutoff in the past.
	stale, err := store.StaleSessions(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("StaleSessions: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("expected no stale sessions, got %v", stale)
	}

	// A cutoff in the future makes every session stale.
	stale, err = store.StaleSessions(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("StaleSessions: %v", err)
	}
	if len(stale) != 2 {
		t.Errorf("expected both sessions stale, got %v", stale)
	}
}
