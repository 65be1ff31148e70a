package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/finboard/finboard/internal/models"
	"github.com/finboard/finboard/internal/pricing"
	"github.com/finboard/finboard/internal/services"
)

// DatabaseClient defines the interface for table storage operations used by handlers.
type DatabaseClient interface {
	SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)
	GetTransactions(ctx context.Context) ([]models.Transaction, error)

	SaveNetWorthSamples(ctx context.Context, samples []models.NetWorthSample) error
	GetNetWorthSamples(ctx context.Context) ([]models.NetWorthSample, error)

	GetHoldings(ctx context.Context) ([]models.Holding, error)
	SaveHolding(ctx context.Context, holding models.Holding) error
	DeleteHolding(ctx context.Context, id string) error
	ReplaceHoldings(ctx context.Context, holdings []models.Holding) error
}

// BlobClient defines the interface for blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the interface for queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
	DequeueMessages(ctx context.Context, queueName string, max int32) ([]services.QueueMessage, error)
	DeleteMessage(ctx context.Context, queueName, messageID, popReceipt string) error
}

// EmailClient defines the interface for email operations used by handlers.
type EmailClient interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
	SendErrorEmail(ctx context.Context, recipients []string, errors []string) error
}

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Database DatabaseClient
	Blob     BlobClient
	Queue    QueueClient
	Email    EmailClient
	Prices   pricing.Source

	UploadsContainer string
	ReportsContainer string
	ProcessQueue     string
	Recipient        string

	// Now allows tests to pin report timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// HandleHealth reports service liveness.
func (d *Dependencies) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
