package corpus

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osaleh99/doc-chat/internal/apperr"
	"github.com/osaleh99/doc-chat/internal/session"
)

// maxUploadMemory bounds in-memory multipart buffering; larger parts spill
// to temp files.
const maxUploadMemory = 32 << 20

// RegisterRoutes mounts the upload and metadata endpoints on the router.
func RegisterRoutes(r chi.Router, mgr *Manager) {
	r.Post("/api/upload", handleUpload(mgr))
	r.Route("/api/metadata", func(r chi.Router) {
		r.Get("/", handleList(mgr))
		r.Delete("/{id}", handleRemove(mgr))
	})
}

func handleUpload(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			http.Error(w, "no active session", http.StatusBadRequest)
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			http.Error(w, "malformed multipart request", http.StatusBadRequest)
			return
		}

		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			http.Error(w, "no files in request", http.StatusBadRequest)
			return
		}

		var files []UploadFile
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				http.Error(w, "reading upload: "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "reading upload: "+err.Error(), http.StatusBadRequest)
				return
			}
			files = append(files, UploadFile{Name: h.Filename, Data: data})
		}

		result, err := mgr.Ingest(r.Context(), sid, files)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Status        string   `json:"status"`
			UploadedFiles []string `json:"uploaded_files"`
		}{Status: "uploaded", UploadedFiles: result.UploadedFilenames})
	}
}

func handleList(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		if sid == "" {
			writeJSON(w, http.StatusOK, []Document{})
			return
		}

		docs, err := mgr.ListDocuments(r.Context(), sid)
		if err != nil {
			writeError(w, err)
			return
		}
		if docs == nil {
			docs = []Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func handleRemove(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := session.FromContext(r.Context())
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid document id", http.StatusBadRequest)
			return
		}

		result, err := mgr.Remove(r.Context(), sid, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrLimitExceeded), errors.Is(err, apperr.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		var embErr *apperr.EmbeddingError
		if errors.As(err, &embErr) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
