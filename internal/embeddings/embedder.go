package embeddings

import "context"

// Embedder maps text to fixed-dimension vectors. The same embedder identity
// must be used when building a session's index and when embedding questions
// against it, otherwise similarity scores are meaningless.
type Embedder interface {
	// Embed generates embeddings for one or more texts, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimension count.
	Dimensions() int

	// Name returns the provider/model identity of this embedder.
	Name() string
}
