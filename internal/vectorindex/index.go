// Package vectorindex adapts chromem-go to the session index contract: a
// fully-materialized, per-session artifact that is built in memory, swapped
// atomically on disk, and searched by query vector. No incremental update is
// exposed; every corpus mutation is a full rebuild.
package vectorindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	chromem "github.com/philippgille/chromem-go"

	"github.com/osaleh99/doc-chat/internal/apperr"
)

const collectionName = "corpus"

// Entry is one indexed chunk: its precomputed embedding, the chunk text, and
// the filename it came from.
type Entry struct {
	Embedding []float32
	Text      string
	Source    string
}

// Hit is one search result, ordered by descending similarity.
type Hit struct {
	Text   string
	Source string
	Score  float32
}

// Index holds one session's chunk vectors.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Build materializes an index in memory from the given entries. Entry IDs are
// derived from source filename and chunk ordinal, so building twice from the
// same entries yields an identical index.
func Build(ctx context.Context, entries []Entry) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(entries))
	ordinals := make(map[string]int, len(entries))
	for i, e := range entries {
		n := ordinals[e.Source]
		ordinals[e.Source] = n + 1
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s#%d", e.Source, n),
			Content:   e.Text,
			Embedding: e.Embedding,
			Metadata:  map[string]string{"source": e.Source},
		}
	}

	if len(docs) > 0 {
		if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("add documents: %w", err)
		}
	}

	return &Index{db: db, collection: col}, nil
}

// Save persists the index artifact at path, replacing any previous artifact.
// The export is written to a temporary file and renamed into place so a
// failed or cancelled save never leaves a partial artifact visible.
func (ix *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := ix.db.ExportToFile(tmp, true, ""); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("exporting index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("swapping index artifact: %w", err)
	}
	return nil
}

// Load reads a previously saved index artifact. A missing or unreadable
// artifact is reported as apperr.ErrIndexUnavailable so callers can surface
// "upload documents first" instead of an internal failure.
func Load(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrIndexUnavailable, path)
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("%w: importing %s: %v", apperr.ErrIndexUnavailable, path, err)
	}

	col := db.GetCollection(collectionName, nil)
	if col == nil {
		return nil, fmt.Errorf("%w: collection missing in %s", apperr.ErrIndexUnavailable, path)
	}

	return &Index{db: db, collection: col}, nil
}

// Search returns up to k hits nearest to the query vector, by descending
// similarity. Fewer than k hits are returned when the index is smaller.
func (ix *Index) Search(ctx context.Context, queryVec []float32, k int) ([]Hit, error) {
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := ix.collection.QueryEmbedding(ctx, queryVec, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			Text:   r.Content,
			Source: r.Metadata["source"],
			Score:  r.Similarity,
		}
	}
	return hits, nil
}

// Len returns the number of entries in the index.
func (ix *Index) Len() int {
	return ix.collection.Count()
}
