package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/ragassistant/internal/adapter"
	"github.com/akolanti/ragassistant/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, only log
		logRH.Error("Error encoding response", "error", err)
	}
}

// validateContext rejects requests whose context is already done or that
// arrive before the handler was initialised.
func validateContext(r *http.Request) bool {
	ctx := r.Context()
	if ctx.Err() != nil {
		logRH.Warn("context error", "traceId", config.TraceID(ctx), "error", ctx.Err())
		return false
	}
	if handlerInstance == nil {
		logRH.Error("Job handler is not initialised", "traceId", config.TraceID(ctx))
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// saveUpload copies an uploaded file into dir under its base name, so a
// re-upload replaces the earlier copy and re-indexing upserts its chunks.
func saveUpload(fh *multipart.FileHeader, dir string) (string, string) {
	src, err := fh.Open()
	if err != nil {
		return "", "Could not retrieve file"
	}
	defer src.Close()

	path := filepath.Join(dir, filepath.Base(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		logRH.Error("Couldn't create upload", "path", path, "error", err)
		return "", "Storage error"
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		logRH.Error("Couldn't write upload", "path", path, "error", err)
		return "", "Write error"
	}
	return path, ""
}
