// Package corpus owns the session-scoped document corpus: the mapping from
// session to document set to chunk set, and the coordination that keeps the
// metadata record and the persisted vector index consistent. Every mutation
// of a session's file area triggers exactly one full index rebuild, guarded
// by a per-session lock.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/chunker"
	"github.com/osaleh99/doc-chat/internal/embeddings"
	"github.com/osaleh99/doc-chat/internal/extract"
	"github.com/osaleh99/doc-chat/internal/vectorindex"
)

const (
	DefaultMaxFiles      = 20
	DefaultMaxFileSizeMB = 10
	DefaultChunkSize     = 2000
	DefaultChunkOverlap  = 200
)

// ManagerConfig carries the corpus layout and limits. An explicit config
// object replaces shared package-level roots so tests can run isolated
// instances.
type ManagerConfig struct {
	UploadRoot    string // per-session file areas live under UploadRoot/<session>
	IndexRoot     string // per-session index artifacts live under IndexRoot/<session>.gob.gz
	ChunkSize     int
	ChunkOverlap  int
	MaxFiles      int
	MaxFileSizeMB int
	MaxPages      int
	MaxParagraphs int
}

func (c *ManagerConfig) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = DefaultMaxFiles
	}
	if c.MaxFileSizeMB <= 0 {
		c.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
}

// Manager orchestrates ingestion, removal, and index rebuilds for every
// session.
type Manager struct {
	store     *Store
	embedder  embeddings.Embedder
	extractor *extract.Extractor
	locks     *sessionLocks
	cfg       ManagerConfig
	log       zerolog.Logger
}

// NewManager creates a Manager.
func NewManager(store *Store, embedder embeddings.Embedder, cfg ManagerConfig, logger zerolog.Logger) *Manager {
	cfg.applyDefaults()
	return &Manager{
		store:     store,
		embedder:  embedder,
		extractor: extract.New(cfg.MaxPages, cfg.MaxParagraphs),
		locks:     newSessionLocks(),
		cfg:       cfg,
		log:       logger,
	}
}

// Store exposes the metadata store for the query engine's log access.
func (m *Manager) Store() *Store { return m.store }

func (m *Manager) uploadDir(sessionID string) string {
	return filepath.Join(m.cfg.UploadRoot, sessionID)
}

// IndexPath returns the session's index artifact path.
func (m *Manager) IndexPath(sessionID string) string {
	return filepath.Join(m.cfg.IndexRoot, sessionID+".gob.gz")
}

// Ingest validates and persists an upload batch, records Document and Chunk
// rows in one transaction, and rebuilds the session's index once for the
// whole batch. Files with unsupported extensions or over the size cap are
// skipped silently; a batch that would push the session past MaxFiles is
// rejected whole with apperr.ErrLimitExceeded before any side effect.
func (m *Manager) Ingest(ctx context.Context, sessionID string, files []UploadFile) (*IngestResult, error) {
	lock := m.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	current, err := m.store.CountDocuments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current+len(files) > m.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: session holds %d documents, batch of %d exceeds cap of %d",
			apperr.ErrLimitExceeded, current, len(files), m.cfg.MaxFiles)
	}

	dir := m.uploadDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session file area: %w", err)
	}

	maxBytes := int64(m.cfg.MaxFileSizeMB) << 20

	var newDocs []NewDocument
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !extract.Supported(f.Name) {
			m.log.Debug().Str("session", sessionID).Str("file", f.Name).Msg("skipping unsupported extension")
			continue
		}
		if int64(len(f.Data)) > maxBytes {
			m.log.Debug().Str("session", sessionID).Str("file", f.Name).Int("size", len(f.Data)).Msg("skipping oversized file")
			continue
		}

		// Last write wins on filename collision; the stored path is keyed
		// by filename only.
		dest := filepath.Join(dir, filepath.Base(f.Name))
		if err := writeFileAtomic(dest, f.Data); err != nil {
			return nil, fmt.Errorf("storing %s: %w", f.Name, err)
		}

		// One chunking pass serves both consumers: these chunk rows are the
		// accounting record, and the rebuild below re-derives the same
		// chunks for the index.
		doc := NewDocument{Filename: filepath.Base(f.Name)}
		text, err := m.extractor.Text(dest)
		if err != nil {
			m.log.Debug().Str("session", sessionID).Str("file", f.Name).Err(err).Msg("extraction failed, document recorded without chunks")
		} else {
			doc.Chunks = chunker.Split(text, m.cfg.ChunkSize, m.cfg.ChunkOverlap)
		}
		newDocs = append(newDocs, doc)
	}

	if err := m.store.CreateDocuments(ctx, sessionID, newDocs); err != nil {
		return nil, err
	}

	if _, err := m.rebuildLocked(ctx, sessionID); err != nil {
		return nil, err
	}

	names, err := m.store.Filenames(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.log.Info().Str("session", sessionID).Int("batch", len(files)).Int("stored", len(newDocs)).Msg("ingested upload batch")
	return &IngestResult{UploadedFilenames: names}, nil
}

// Remove deletes one document from the session: the stored file (tolerating
// prior absence), the Document row with its cascading chunks, and then
// rebuilds the index. Unknown ids fail with apperr.ErrNotFound.
func (m *Manager) Remove(ctx context.Context, sessionID string, documentID int64) (*RemovalResult, error) {
	lock := m.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := m.store.GetDocument(ctx, sessionID, documentID)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(m.uploadDir(sessionID), doc.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing %s: %w", doc.Filename, err)
	}

	if err := m.store.DeleteDocument(ctx, documentID); err != nil {
		return nil, err
	}

	if _, err := m.rebuildLocked(ctx, sessionID); err != nil {
		return nil, err
	}

	m.log.Info().Str("session", sessionID).Int64("document", documentID).Str("file", doc.Filename).Msg("removed document")
	return &RemovalResult{Status: "removed", Filename: doc.Filename}, nil
}

// RebuildIndex rebuilds the session's index from its current file set under
// the session lock. A nil index with nil error means the session produced
// zero chunks and has no index.
func (m *Manager) RebuildIndex(ctx context.Context, sessionID string) (*vectorindex.Index, error) {
	lock := m.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return m.rebuildLocked(ctx, sessionID)
}

// rebuildLocked performs the full rebuild. Callers must hold the session
// lock. The new index is materialized fully in memory and swapped on disk
// atomically; failures leave the previous artifact in place.
func (m *Manager) rebuildLocked(ctx context.Context, sessionID string) (*vectorindex.Index, error) {
	dir := m.uploadDir(sessionID)

	var (
		texts   []string
		sources []string
	)
	dirEntries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading session file area: %w", err)
	}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := m.extractor.Text(filepath.Join(dir, de.Name()))
		if err != nil {
			// Unsupported, over-ceiling, or unparseable files contribute
			// nothing; the rest of the corpus still indexes.
			m.log.Debug().Str("session", sessionID).Str("file", de.Name()).Err(err).Msg("skipping file during rebuild")
			continue
		}
		for c := range chunker.Chunks(text, m.cfg.ChunkSize, m.cfg.ChunkOverlap) {
			texts = append(texts, c)
			sources = append(sources, de.Name())
		}
	}

	if len(texts) == 0 {
		if err := os.Remove(m.IndexPath(sessionID)); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing index artifact: %w", err)
		}
		m.log.Debug().Str("session", sessionID).Msg("no chunks, session has no index")
		return nil, nil
	}

	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, &apperr.EmbeddingError{Err: err}
	}
	if len(vectors) != len(texts) {
		return nil, &apperr.EmbeddingError{Err: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(texts))}
	}

	entries := make([]vectorindex.Entry, len(texts))
	for i := range texts {
		entries[i] = vectorindex.Entry{
			Embedding: vectors[i],
			Text:      texts[i],
			Source:    sources[i],
		}
	}

	ix, err := vectorindex.Build(ctx, entries)
	if err != nil {
		return nil, err
	}
	if err := ix.Save(m.IndexPath(sessionID)); err != nil {
		return nil, err
	}

	m.log.Info().Str("session", sessionID).Int("chunks", len(texts)).Msg("rebuilt session index")
	return ix, nil
}

// LoadIndex loads the session's persisted index, failing with
// apperr.ErrIndexUnavailable when absent or unreadable.
func (m *Manager) LoadIndex(sessionID string) (*vectorindex.Index, error) {
	return vectorindex.Load(m.IndexPath(sessionID))
}

// ListDocuments returns the session's document records.
func (m *Manager) ListDocuments(ctx context.Context, sessionID string) ([]Document, error) {
	return m.store.ListDocuments(ctx, sessionID)
}

// Sweep evicts sessions idle for longer than ttl: their file areas, index
// artifacts, and metadata rows. It returns the number of evicted sessions.
func (m *Manager) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	stale, err := m.store.StaleSessions(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	evicted := 0
	var errs []error
	for _, sessionID := range stale {
		if err := m.evictSession(ctx, sessionID); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", sessionID, err))
			continue
		}
		evicted++
	}
	if len(errs) > 0 {
		return evicted, errors.Join(errs...)
	}
	if evicted > 0 {
		m.log.Info().Int("sessions", evicted).Msg("swept stale sessions")
	}
	return evicted, nil
}

func (m *Manager) evictSession(ctx context.Context, sessionID string) error {
	lock := m.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.RemoveAll(m.uploadDir(sessionID)); err != nil {
		return fmt.Errorf("removing file area: %w", err)
	}
	if err := os.Remove(m.IndexPath(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing index artifact: %w", err)
	}
	return m.store.DeleteSession(ctx, sessionID)
}

// writeFileAtomic stores data at path via a temporary file and rename, so a
// cancelled or failed upload never leaves a partially-written file visible
// to a rebuild.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
