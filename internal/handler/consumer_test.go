package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/finboard/finboard/internal/models"
	"github.com/finboard/finboard/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueMsg(body string) services.QueueMessage {
	return services.QueueMessage{
		ID:         "msg-1",
		PopReceipt: "pop-1",
		Body:       []byte(body),
	}
}

func TestProcessMessage_Transactions(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{
		Database:         mockDb,
		Blob:             mockBlob,
		UploadsContainer: "uploads",
	}

	blobContent := "Date,Description,Amount\n2023-01-01,Paycheck,2500.00\n2023-01-05,Grocery Store,-82.50"
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		assert.Equal(t, "uploads", containerName)
		assert.Equal(t, "transactions/test.csv", blobName)
		return blobContent, nil
	}

	var saved []models.Transaction
	mockDb.SaveTransactionsFunc = func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
		saved = transactions
		return transactions, nil
	}

	msg := queueMsg(`{"blobName": "transactions/test.csv", "kind": "transactions"}`)
	err := deps.ProcessMessage(context.Background(), msg)

	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, models.TypeIncome, saved[0].Type)
	assert.Equal(t, models.TypeExpense, saved[1].Type)
	assert.True(t, saved[1].Amount.Equal(decimal.NewFromFloat(82.50)))
	assert.Equal(t, "2023-01", saved[1].Month)
}

func TestProcessMessage_KindDefaultsToTransactions(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Database: mockDb, Blob: mockBlob}

	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "Date,Description,Amount\n2023-01-01,Coffee,-4.50", nil
	}

	called := false
	mockDb.SaveTransactionsFunc = func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
		called = true
		return transactions, nil
	}

	err := deps.ProcessMessage(context.Background(), queueMsg(`{"blobName": "transactions/test.csv"}`))

	require.NoError(t, err)
	assert.True(t, called)
}

func TestProcessMessage_SchemaErrorConsumedAndReported(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	mockEmail := &MockEmailClient{}
	deps := &Dependencies{
		Database:  mockDb,
		Blob:      mockBlob,
		Email:     mockEmail,
		Recipient: "user@example.com",
	}

	// No Amount column.
	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "Date,Description\n2023-01-01,Coffee", nil
	}

	saveCalled := false
	mockDb.SaveTransactionsFunc = func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
		saveCalled = true
		return transactions, nil
	}

	var reported []string
	mockEmail.SendErrorEmailFunc = func(ctx context.Context, recipients []string, errs []string) error {
		assert.Equal(t, []string{"user@example.com"}, recipients)
		reported = errs
		return nil
	}

	err := deps.ProcessMessage(context.Background(), queueMsg(`{"blobName": "transactions/bad.csv"}`))

	// Permanent failures consume the message.
	require.NoError(t, err)
	assert.False(t, saveCalled)
	assert.NotEmpty(t, reported)
}

func TestProcessMessage_DownloadErrorRetried(t *testing.T) {
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Blob: mockBlob}

	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "", errors.New("download failed")
	}

	err := deps.ProcessMessage(context.Background(), queueMsg(`{"blobName": "transactions/test.csv"}`))

	assert.Error(t, err)
}

func TestProcessMessage_SaveErrorRetried(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Database: mockDb, Blob: mockBlob}

	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "Date,Description,Amount\n2023-01-01,Coffee,-4.50", nil
	}
	mockDb.SaveTransactionsFunc = func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
		return nil, errors.New("storage unavailable")
	}

	err := deps.ProcessMessage(context.Background(), queueMsg(`{"blobName": "transactions/test.csv"}`))

	assert.Error(t, err)
}

func TestProcessMessage_NetWorth(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Database: mockDb, Blob: mockBlob}

	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "Date,Net Worth\n2023-01-31,50000\n2023-02-28,52000", nil
	}

	var saved []models.NetWorthSample
	mockDb.SaveNetWorthSamplesFunc = func(ctx context.Context, samples []models.NetWorthSample) error {
		saved = samples
		return nil
	}

	msg := queueMsg(`{"blobName": "networth/nw.csv", "kind": "networth"}`)
	err := deps.ProcessMessage(context.Background(), msg)

	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.True(t, saved[0].NetWorth.Equal(decimal.NewFromInt(50000)))
}

func TestProcessMessage_Portfolio(t *testing.T) {
	mockDb := &MockDatabaseClient{}
	mockBlob := &MockBlobClient{}
	deps := &Dependencies{Database: mockDb, Blob: mockBlob}

	mockBlob.DownloadTextFunc = func(ctx context.Context, containerName, blobName string) (string, error) {
		return "Investment,Shares\nAAPL,10\nMSFT,5", nil
	}

	var replaced []models.Holding
	mockDb.ReplaceHoldingsFunc = func(ctx context.Context, holdings []models.Holding) error {
		replaced = holdings
		return nil
	}

	msg := queueMsg(`{"blobName": "portfolio/pf.csv", "kind": "portfolio"}`)
	err := deps.ProcessMessage(context.Background(), msg)

	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.Equal(t, "AAPL", replaced[0].Symbol)
}

func TestProcessMessage_MalformedPayloadConsumed(t *testing.T) {
	deps := &Dependencies{}

	err := deps.ProcessMessage(context.Background(), queueMsg("not json"))

	assert.NoError(t, err)
}

func TestProcessMessage_MissingBlobNameConsumed(t *testing.T) {
	deps := &Dependencies{}

	err := deps.ProcessMessage(context.Background(), queueMsg(`{"kind": "transactions"}`))

	assert.NoError(t, err)
}
