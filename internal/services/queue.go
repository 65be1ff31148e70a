package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// QueueMessage is a dequeued message with the receipt needed to delete it.
type QueueMessage struct {
	ID         string
	PopReceipt string
	Body       []byte
}

// QueueService handles interactions with Azure Queue Storage.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
}

// NewQueueService creates a new QueueService for the given service URL.
func NewQueueService(serviceURL string) (*QueueService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("queue service URL is required")
	}

	slog.Info("initializing queue service", "queue_url", serviceURL)
	var client *azqueue.ServiceClient

	if isLocal(serviceURL) {
		slog.Info("using Azurite shared key credentials for queue service")
		name, key := getAzuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azqueue.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	slog.Info("queue service initialized")
	return &QueueService{serviceClient: client}, nil
}

// EnsureQueue creates a queue if it does not already exist.
func (s *QueueService) EnsureQueue(ctx context.Context, queueName string) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)
	_, err := queueClient.Create(ctx, nil)
	if err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		return fmt.Errorf("failed to create queue %s: %w", queueName, err)
	}
	return nil
}

// EnqueueMessage adds a JSON message to a queue, base64-encoded on the wire.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	slog.Info("enqueuing message", "queue", queueName)
	queueClient := s.serviceClient.NewQueueClient(queueName)

	// Create queue if not exists (mostly for dev)
	_, err := queueClient.Create(ctx, nil)
	if err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		slog.Warn("failed to create queue (may already exist)", "queue", queueName, "error", err)
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	encodedMsg := base64.StdEncoding.EncodeToString(msgBytes)
	_, err = queueClient.EnqueueMessage(ctx, encodedMsg, nil)
	if err != nil {
		slog.Error("failed to enqueue message", "queue", queueName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}

	slog.Info("enqueued message", "queue", queueName)
	return nil
}

// DequeueMessages pulls up to max messages from a queue, decoding the
// base64 wrapping applied by EnqueueMessage.
func (s *QueueService) DequeueMessages(ctx context.Context, queueName string, max int32) ([]QueueMessage, error) {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	resp, err := queueClient.DequeueMessages(ctx, &azqueue.DequeueMessagesOptions{
		NumberOfMessages: &max,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue from %s: %w", queueName, err)
	}

	var messages []QueueMessage
	for _, m := range resp.Messages {
		if m.MessageID == nil || m.PopReceipt == nil || m.MessageText == nil {
			continue
		}

		body := []byte(*m.MessageText)
		if decoded, err := base64.StdEncoding.DecodeString(*m.MessageText); err == nil {
			body = decoded
		}

		messages = append(messages, QueueMessage{
			ID:         *m.MessageID,
			PopReceipt: *m.PopReceipt,
			Body:       body,
		})
	}

	return messages, nil
}

// DeleteMessage removes a processed message from the queue.
func (s *QueueService) DeleteMessage(ctx context.Context, queueName, messageID, popReceipt string) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	_, err := queueClient.DeleteMessage(ctx, messageID, popReceipt, nil)
	if err != nil {
		return fmt.Errorf("failed to delete message %s from %s: %w", messageID, queueName, err)
	}
	return nil
}
