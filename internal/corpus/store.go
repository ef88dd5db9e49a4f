package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/db"
)

// Store provides the session-scoped metadata record: documents, their chunk
// accounting, and the query log.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// NewDocument describes one document to persist, with the chunk texts
// produced by the same chunking pass that feeds the vector index.
type NewDocument struct {
	Filename string
	Chunks   []string
}

// CreateDocuments inserts the documents of one ingestion batch atomically:
// either every Document and Chunk row lands, or none do.
func (s *Store) CreateDocuments(ctx context.Context, sessionID string, docs []NewDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range docs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (filename, session_id, num_chunks) VALUES (?, ?, ?)`,
			d.Filename, sessionID, len(d.Chunks),
		)
		if err != nil {
			return fmt.Errorf("inserting document %s: %w", d.Filename, err)
		}
		docID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading document id: %w", err)
		}
		for _, c := range d.Chunks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunks (document_id, content) VALUES (?, ?)`,
				docID, c,
			); err != nil {
				return fmt.Errorf("inserting chunk for %s: %w", d.Filename, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ingestion batch: %w", err)
	}
	return nil
}

// CountDocuments returns the number of documents in the session.
func (s *Store) CountDocuments(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE session_id = ?`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// ListDocuments returns the session's documents in upload order.
func (s *Store) ListDocuments(ctx context.Context, sessionID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, session_id, upload_time, num_chunks
		 FROM documents WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// GetDocument returns the document with the given id if it belongs to the
// session, or apperr.ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, sessionID string, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, session_id, upload_time, num_chunks
		 FROM documents WHERE id = ? AND session_id = ?`, id, sessionID)

	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %d: %w", id, err)
	}
	return d, nil
}

// DeleteDocument removes the document row; its chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	return nil
}

// Filenames returns the distinct filenames known to the session, in first
// upload order. Re-uploading a filename does not duplicate it here.
func (s *Store) Filenames(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename FROM documents WHERE session_id = ?
		 GROUP BY filename ORDER BY MIN(id)`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing filenames: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ChunksForDocument returns the chunk rows of one document, in insert order.
func (s *Store) ChunksForDocument(ctx context.Context, documentID int64) ([]Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, content FROM chunks WHERE document_id = ? ORDER BY id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// AppendQueryLog records one answered question.
func (s *Store) AppendQueryLog(ctx context.Context, sessionID, question, response string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_logs (session_id, question, response) VALUES (?, ?, ?)`,
		sessionID, question, response,
	)
	if err != nil {
		return fmt.Errorf("appending query log: %w", err)
	}
	return nil
}

// QueryLogs returns the session's query log in timestamp order.
func (s *Store) QueryLogs(ctx context.Context, sessionID string) ([]QueryLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, question, response, timestamp
		 FROM query_logs WHERE session_id = ? ORDER BY timestamp, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing query logs: %w", err)
	}
	defer rows.Close()

	var entries []QueryLogEntry
	for rows.Next() {
		var (
			e  QueryLogEntry
			ts string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Question, &e.Response, &ts); err != nil {
			return nil, err
		}
		e.Timestamp = parseTimestamp(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountQueryLogs returns the number of logged queries for the session.
func (s *Store) CountQueryLogs(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM query_logs WHERE session_id = ?`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting query logs: %w", err)
	}
	return n, nil
}

// ClearQueryLogs deletes the session's query log in bulk, returning the
// number of deleted entries.
func (s *Store) ClearQueryLogs(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM query_logs WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clearing query logs: %w", err)
	}
	return res.RowsAffected()
}

// DeleteSession removes every metadata row belonging to the session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session documents: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM query_logs WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session query logs: %w", err)
	}
	return nil
}

// StaleSessions returns session ids whose latest activity (upload or query)
// is older than the cutoff.
func (s *Store) StaleSessions(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id FROM (
			SELECT session_id, upload_time AS ts FROM documents
			UNION ALL
			SELECT session_id, timestamp AS ts FROM query_logs
		) GROUP BY session_id HAVING MAX(ts) < ?`,
		before.UTC().Format(time.DateTime))
	if err != nil {
		return nil, fmt.Errorf("listing stale sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*Document, error) {
	var (
		d  Document
		ts string
	)
	if err := sc.Scan(&d.ID, &d.Filename, &d.SessionID, &ts, &d.NumChunks); err != nil {
		return nil, err
	}
	d.UploadTime = parseTimestamp(ts)
	return &d, nil
}

func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
