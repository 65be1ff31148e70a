package handler

import (
	"context"

	"github.com/finboard/finboard/internal/models"
	"github.com/finboard/finboard/internal/services"
)

// MockDatabaseClient is a mock implementation of DatabaseClient
type MockDatabaseClient struct {
	SaveTransactionsFunc    func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)
	GetTransactionsFunc     func(ctx context.Context) ([]models.Transaction, error)
	SaveNetWorthSamplesFunc func(ctx context.Context, samples []models.NetWorthSample) error
	GetNetWorthSamplesFunc  func(ctx context.Context) ([]models.NetWorthSample, error)
	GetHoldingsFunc         func(ctx context.Context) ([]models.Holding, error)
	SaveHoldingFunc         func(ctx context.Context, holding models.Holding) error
	DeleteHoldingFunc       func(ctx context.Context, id string) error
	ReplaceHoldingsFunc     func(ctx context.Context, holdings []models.Holding) error
}

func (m *MockDatabaseClient) SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	if m.SaveTransactionsFunc != nil {
		return m.SaveTransactionsFunc(ctx, transactions)
	}
	return transactions, nil
}

func (m *MockDatabaseClient) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	if m.GetTransactionsFunc != nil {
		return m.GetTransactionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockDatabaseClient) SaveNetWorthSamples(ctx context.Context, samples []models.NetWorthSample) error {
	if m.SaveNetWorthSamplesFunc != nil {
		return m.SaveNetWorthSamplesFunc(ctx, samples)
	}
	return nil
}

func (m *MockDatabaseClient) GetNetWorthSamples(ctx context.Context) ([]models.NetWorthSample, error) {
	if m.GetNetWorthSamplesFunc != nil {
		return m.GetNetWorthSamplesFunc(ctx)
	}
	return nil, nil
}

func (m *MockDatabaseClient) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	if m.GetHoldingsFunc != nil {
		return m.GetHoldingsFunc(ctx)
	}
	return nil, nil
}

func (m *MockDatabaseClient) SaveHolding(ctx context.Context, holding models.Holding) error {
	if m.SaveHoldingFunc != nil {
		return m.SaveHoldingFunc(ctx, holding)
	}
	return nil
}

func (m *MockDatabaseClient) DeleteHolding(ctx context.Context, id string) error {
	if m.DeleteHoldingFunc != nil {
		return m.DeleteHoldingFunc(ctx, id)
	}
	return nil
}

func (m *MockDatabaseClient) ReplaceHoldings(ctx context.Context, holdings []models.Holding) error {
	if m.ReplaceHoldingsFunc != nil {
		return m.ReplaceHoldingsFunc(ctx, holdings)
	}
	return nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc  func(ctx context.Context, queueName string, message any) error
	DequeueMessagesFunc func(ctx context.Context, queueName string, max int32) ([]services.QueueMessage, error)
	DeleteMessageFunc   func(ctx context.Context, queueName, messageID, popReceipt string) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

func (m *MockQueueClient) DequeueMessages(ctx context.Context, queueName string, max int32) ([]services.QueueMessage, error) {
	if m.DequeueMessagesFunc != nil {
		return m.DequeueMessagesFunc(ctx, queueName, max)
	}
	return nil, nil
}

func (m *MockQueueClient) DeleteMessage(ctx context.Context, queueName, messageID, popReceipt string) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, queueName, messageID, popReceipt)
	}
	return nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendEmailFunc      func(ctx context.Context, to []string, subject, body string) error
	SendErrorEmailFunc func(ctx context.Context, recipients []string, errors []string) error
}

func (m *MockEmailClient) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailClient) SendErrorEmail(ctx context.Context, recipients []string, errors []string) error {
	if m.SendErrorEmailFunc != nil {
		return m.SendErrorEmailFunc(ctx, recipients, errors)
	}
	return nil
}
