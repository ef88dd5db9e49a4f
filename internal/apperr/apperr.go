// Package apperr defines the error taxonomy shared across the document
// pipeline. Handlers and callers classify failures with errors.Is/errors.As
// rather than string matching.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a user-correctable request problem, such as an
	// empty question.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a lookup for an entity that does not exist in the
	// caller's session.
	ErrNotFound = errors.New("not found")

	// ErrLimitExceeded rejects a whole ingestion batch that would push a
	// session past its document cap. It never applies partially.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrIndexUnavailable means the session has no built vector index, or
	// the persisted artifact could not be read. Callers surface this as
	// "upload documents first" rather than as an internal failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)

// EmbeddingError wraps a failure from the embedding provider, preserving the
// upstream message.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError wraps a failure from the generation provider, preserving
// the upstream message.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation provider: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
