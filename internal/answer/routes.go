package answer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/corpus"
	"github.com/osaleh99/doc-chat/internal/session"
)

// RegisterRoutes mounts the query and chat-history endpoints on the router.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Post("/api/query", handleQuery(engine))
	r.Route("/api/chat-history", func(r chi.Router) {
		r.Get("/", handleHistory(engine))
		r.Delete("/", handleClearHistory(engine))
		r.Get("/export", handleExportHistory(engine))
	})
	r.Get("/api/stats", handleStats(engine))
}

func handleQuery(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			http.Error(w, "no active session", http.StatusBadRequest)
			return
		}

		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		result, err := engine.Query(r.Context(), sid, req.Question)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleHistory(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			writeJSON(w, http.StatusOK, []corpus.QueryLogEntry{})
			return
		}

		entries, err := engine.History(r.Context(), sid)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []corpus.QueryLogEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleClearHistory(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			http.Error(w, "no active session", http.StatusBadRequest)
			return
		}

		deleted, err := engine.ClearHistory(r.Context(), sid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Message      string `json:"message"`
			DeletedCount int64  `json:"deleted_count"`
		}{
			Message:      fmt.Sprintf("Cleared %d chat messages", deleted),
			DeletedCount: deleted,
		})
	}
}

func handleExportHistory(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			http.Error(w, "no active session", http.StatusBadRequest)
			return
		}

		asHTML := r.URL.Query().Get("format") == "html"
		export, err := engine.ExportHistory(r.Context(), sid, asHTML)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, export)
	}
}

func handleStats(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			writeJSON(w, http.StatusOK, Stats{})
			return
		}

		stats, err := engine.SessionStats(r.Context(), sid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		genErr *apperr.GenerationError
		embErr *apperr.EmbeddingError
	)
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperr.ErrIndexUnavailable):
		// Not an internal failure: the session simply has no corpus yet.
		http.Error(w, "no documents indexed yet, upload documents first", http.StatusServiceUnavailable)
	case errors.As(err, &genErr), errors.As(err, &embErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
