// Package answer implements retrieval-augmented question answering over a
// session's indexed corpus, plus the query log surface built on top of it.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/corpus"
	"github.com/osaleh99/doc-chat/internal/embeddings"
	"github.com/osaleh99/doc-chat/internal/llm"
)

// DefaultTopK is the number of chunks retrieved per question when the
// configuration does not override it.
const DefaultTopK = 5

// notFoundAnswer is returned without invoking the generation provider when
// retrieval produces no chunks.
const notFoundAnswer = "The answer is not available in the context."

// AnswerResult is the outcome of one question.
type AnswerResult struct {
	Answer       string `json:"answer"`
	SourcesCount int    `json:"sources_count"`
}

// Engine answers questions from a session's indexed corpus.
type Engine struct {
	corpus   *corpus.Manager
	embedder embeddings.Embedder
	provider llm.Provider
	model    string
	topK     int
	log      zerolog.Logger
}

// NewEngine creates an Engine. The embedder must be the same identity used
// to build session indexes.
func NewEngine(mgr *corpus.Manager, embedder embeddings.Embedder, provider llm.Provider, model string, topK int, logger zerolog.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		corpus:   mgr,
		embedder: embedder,
		provider: provider,
		model:    model,
		topK:     topK,
		log:      logger,
	}
}

// Query answers a question from the session's corpus. It fails with
// apperr.ErrInvalidInput on a blank question and apperr.ErrIndexUnavailable
// when the session has no loadable index, both before any provider call.
// The query log append is best-effort: its failure never fails the query.
func (e *Engine) Query(ctx context.Context, sessionID, question string) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", apperr.ErrInvalidInput)
	}

	ix, err := e.corpus.LoadIndex(sessionID)
	if err != nil {
		return nil, err
	}

	vectors, err := e.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, &apperr.EmbeddingError{Err: err}
	}
	if len(vectors) == 0 {
		return nil, &apperr.EmbeddingError{Err: fmt.Errorf("no vector returned for question")}
	}

	hits, err := ix.Search(ctx, vectors[0], e.topK)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		result := &AnswerResult{Answer: notFoundAnswer, SourcesCount: 0}
		e.appendLog(ctx, sessionID, question, result.Answer)
		return result, nil
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemInstruction},
			{Role: llm.RoleUser, Content: buildUserMessage(hits, question)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &apperr.GenerationError{Err: err}
	}

	result := &AnswerResult{
		Answer:       strings.TrimSpace(resp.Content),
		SourcesCount: len(hits),
	}
	e.appendLog(ctx, sessionID, question, result.Answer)
	return result, nil
}

func (e *Engine) appendLog(ctx context.Context, sessionID, question, answer string) {
	if err := e.corpus.Store().AppendQueryLog(ctx, sessionID, question, answer); err != nil {
		e.log.Warn().Str("session", sessionID).Err(err).Msg("query log write failed")
	}
}

// History returns the session's query log in timestamp order.
func (e *Engine) History(ctx context.Context, sessionID string) ([]corpus.QueryLogEntry, error) {
	return e.corpus.Store().QueryLogs(ctx, sessionID)
}

// ClearHistory deletes the session's query log, returning the entry count.
func (e *Engine) ClearHistory(ctx context.Context, sessionID string) (int64, error) {
	return e.corpus.Store().ClearQueryLogs(ctx, sessionID)
}

// Stats summarizes a session's activity.
type Stats struct {
	TotalQuestions int    `json:"total_questions"`
	TotalDocuments int    `json:"total_documents"`
	SessionID      string `json:"session_id"`
	SessionActive  bool   `json:"session_active"`
}

// SessionStats returns question and document counts for the session.
func (e *Engine) SessionStats(ctx context.Context, sessionID string) (*Stats, error) {
	questions, err := e.corpus.Store().CountQueryLogs(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	documents, err := e.corpus.Store().CountDocuments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalQuestions: questions,
		TotalDocuments: documents,
		SessionID:      sessionID,
		SessionActive:  true,
	}, nil
}
