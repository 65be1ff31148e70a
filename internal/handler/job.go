package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finboard/finboard/internal/report"
)

// RunNightlyReport builds the full report, archives the plain-text rendering
// to blob storage, and emails the HTML rendering to the configured recipient.
// It returns the name of the archived report blob.
func (d *Dependencies) RunNightlyReport(ctx context.Context) (string, error) {
	slog.Info("starting report job")

	data, err := d.BuildReportData(ctx)
	if err != nil {
		return "", err
	}

	text := report.Format(data)
	blobName := fmt.Sprintf("report-%s.txt", data.GeneratedAt.Format("20060102-150405"))

	if err := d.Blob.UploadText(ctx, d.ReportsContainer, blobName, text); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}
	slog.Info("archived report", "blob_name", blobName, "container", d.ReportsContainer)

	if d.Email != nil && d.Recipient != "" {
		subject := fmt.Sprintf("Finboard - Financial Report %s", data.GeneratedAt.Format("2006-01-02"))
		body := report.RenderHTMLBody(data)

		if err := d.Email.SendEmail(ctx, []string{d.Recipient}, subject, body); err != nil {
			// The archived blob is the source of truth; email failure is not fatal.
			slog.Error("failed to send report email", "recipient", d.Recipient, "error", err)
		} else {
			slog.Info("report email sent", "recipient", d.Recipient)
		}
	}

	slog.Info("report job complete",
		"blob_name", blobName,
		"transactions", len(data.Transactions),
		"holdings", len(data.Holdings),
	)
	return blobName, nil
}
