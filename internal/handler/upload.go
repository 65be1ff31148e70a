package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Upload kinds accepted by HandleUpload. Each maps to a processing path in
// the queue consumer.
const (
	KindTransactions = "transactions"
	KindNetWorth     = "networth"
	KindPortfolio    = "portfolio"
)

func validKind(kind string) bool {
	switch kind {
	case KindTransactions, KindNetWorth, KindPortfolio:
		return true
	}
	return false
}

// HandleUpload handles CSV file uploads. The kind query parameter selects
// which dataset the file feeds; it defaults to transactions.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = KindTransactions
	}
	if !validKind(kind) {
		slog.Warn("upload with unknown kind", "kind", kind)
		WriteError(w, http.StatusBadRequest, "Unknown upload kind: "+kind)
		return
	}

	// 10MB limit
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", 10)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	// Read file content
	bytes, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	content := string(bytes)
	slog.Info("received file upload", "filename", header.Filename, "kind", kind, "size_bytes", len(bytes))

	// Blob Name
	timestamp := d.now().Format("20060102-150405")
	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("%s/%s-%s", kind, timestamp, filename)

	// Upload to Blob
	if err := d.Blob.UploadText(r.Context(), d.UploadsContainer, blobName, content); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "container", d.UploadsContainer, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}
	slog.Info("successfully uploaded blob", "blob_name", blobName, "container", d.UploadsContainer)

	// Queue Message
	msg := map[string]string{
		"blobName": blobName,
		"filename": filename,
		"kind":     kind,
	}

	if err := d.Queue.EnqueueMessage(r.Context(), d.ProcessQueue, msg); err != nil {
		slog.Error("failed to enqueue message", "queue", d.ProcessQueue, "filename", filename, "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("successfully enqueued message", "queue", d.ProcessQueue, "filename", filename, "blob_name", blobName, "kind", kind)

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"blobName": blobName,
		"kind":     kind,
	})
}
