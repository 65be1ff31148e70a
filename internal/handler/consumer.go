package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/finboard/finboard/internal/csvparse"
	"github.com/finboard/finboard/internal/finance"
	"github.com/finboard/finboard/internal/services"
)

const (
	consumerPollInterval = 5 * time.Second
	consumerBatchSize    = 16
)

// RunConsumer polls the process queue and handles uploaded files until the
// context is cancelled. Messages that fail transiently are left on the queue
// for redelivery; messages with bad content are consumed and reported by email.
func (d *Dependencies) RunConsumer(ctx context.Context) {
	slog.Info("queue consumer started", "queue", d.ProcessQueue, "poll_interval", consumerPollInterval)

	ticker := time.NewTicker(consumerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("queue consumer stopping")
			return
		case <-ticker.C:
			d.drainQueue(ctx)
		}
	}
}

func (d *Dependencies) drainQueue(ctx context.Context) {
	messages, err := d.Queue.DequeueMessages(ctx, d.ProcessQueue, consumerBatchSize)
	if err != nil {
		slog.Error("failed to dequeue messages", "queue", d.ProcessQueue, "error", err)
		return
	}

	for _, msg := range messages {
		if err := d.ProcessMessage(ctx, msg); err != nil {
			slog.Error("failed to process message, leaving for retry", "message_id", msg.ID, "error", err)
			continue
		}
		if err := d.Queue.DeleteMessage(ctx, d.ProcessQueue, msg.ID, msg.PopReceipt); err != nil {
			slog.Error("failed to delete processed message", "message_id", msg.ID, "error", err)
		}
	}
}

// ProcessMessage handles a single queue message. A nil return means the
// message is done and should be deleted; an error means it should be retried.
func (d *Dependencies) ProcessMessage(ctx context.Context, msg services.QueueMessage) error {
	var payload map[string]string
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		// Malformed payload will never succeed; consume it.
		slog.Warn("discarding malformed queue message", "message_id", msg.ID, "error", err)
		return nil
	}

	blobName := payload["blobName"]
	if blobName == "" {
		slog.Warn("discarding queue message without blobName", "message_id", msg.ID)
		return nil
	}

	kind := payload["kind"]
	if kind == "" {
		kind = KindTransactions
	}

	slog.Info("processing queue item", "blob_name", blobName, "kind", kind)

	csvContent, err := d.Blob.DownloadText(ctx, d.UploadsContainer, blobName)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", blobName, err)
	}

	switch kind {
	case KindTransactions:
		return d.ingestTransactions(ctx, blobName, csvContent)
	case KindNetWorth:
		return d.ingestNetWorth(ctx, blobName, csvContent)
	case KindPortfolio:
		return d.ingestPortfolio(ctx, blobName, csvContent)
	default:
		slog.Warn("discarding queue message with unknown kind", "kind", kind, "blob_name", blobName)
		return nil
	}
}

func (d *Dependencies) ingestTransactions(ctx context.Context, blobName, csvContent string) error {
	table, err := csvparse.Parse(csvContent)
	if err != nil {
		d.reportUploadErrors(ctx, blobName, []error{err})
		return nil
	}

	transactions, rowErrors, err := finance.Normalize(table)
	if err != nil {
		// Schema problems are permanent; report and consume.
		d.reportUploadErrors(ctx, blobName, []error{err})
		return nil
	}
	slog.Info("parsed transactions CSV", "blob_name", blobName, "transactions_count", len(transactions), "errors_count", len(rowErrors))

	if len(rowErrors) > 0 && len(transactions) == 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
		return nil
	}

	newTransactions, err := d.Database.SaveTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	slog.Info("saved new transactions", "new_count", len(newTransactions), "total_parsed", len(transactions))

	if len(rowErrors) > 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
	}
	return nil
}

func (d *Dependencies) ingestNetWorth(ctx context.Context, blobName, csvContent string) error {
	samples, rowErrors, err := csvparse.ParseNetWorth(csvContent)
	if err != nil {
		d.reportUploadErrors(ctx, blobName, []error{err})
		return nil
	}
	slog.Info("parsed net worth CSV", "blob_name", blobName, "samples_count", len(samples), "errors_count", len(rowErrors))

	if len(rowErrors) > 0 && len(samples) == 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
		return nil
	}

	if err := d.Database.SaveNetWorthSamples(ctx, samples); err != nil {
		return fmt.Errorf("failed to save net worth samples: %w", err)
	}
	slog.Info("saved net worth samples", "count", len(samples))

	if len(rowErrors) > 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
	}
	return nil
}

func (d *Dependencies) ingestPortfolio(ctx context.Context, blobName, csvContent string) error {
	holdings, rowErrors, err := csvparse.ParsePortfolio(csvContent)
	if err != nil {
		d.reportUploadErrors(ctx, blobName, []error{err})
		return nil
	}
	slog.Info("parsed portfolio CSV", "blob_name", blobName, "holdings_count", len(holdings), "errors_count", len(rowErrors))

	if len(rowErrors) > 0 && len(holdings) == 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
		return nil
	}

	if err := d.Database.ReplaceHoldings(ctx, holdings); err != nil {
		return fmt.Errorf("failed to replace holdings: %w", err)
	}
	slog.Info("replaced holdings", "count", len(holdings))

	if len(rowErrors) > 0 {
		d.reportUploadErrors(ctx, blobName, rowErrors)
	}
	return nil
}

func (d *Dependencies) reportUploadErrors(ctx context.Context, blobName string, errs []error) {
	messages := make([]string, 0, len(errs)+1)
	messages = append(messages, "File: "+blobName)
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	slog.Warn("upload produced errors", "blob_name", blobName, "errors_count", len(errs))

	if d.Email == nil || d.Recipient == "" {
		return
	}
	if err := d.Email.SendErrorEmail(ctx, []string{d.Recipient}, messages); err != nil {
		slog.Error("failed to send error email", "blob_name", blobName, "error", err)
	}
}
