package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/finboard/finboard/internal/csvparse"
	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Partition keys for the single-partition tables.
const (
	netWorthPartition = "NET_WORTH"
	holdingsPartition = "HOLDINGS"
)

// TableService persists transactions, net worth samples, and portfolio
// holdings in Azure Table Storage.
type TableService struct {
	serviceClient     *aztables.ServiceClient
	transactionsTable string
	netWorthTable     string
	holdingsTable     string
}

// NewTableService creates a new TableService and ensures all tables exist.
func NewTableService(serviceURL, transactionsTable, netWorthTable, holdingsTable string) (*TableService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("table service URL is required")
	}

	var client *aztables.ServiceClient

	if isLocal(serviceURL) {
		slog.Info("using Azurite credentials for table service")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		slog.Info("using default Azure credentials for table service")
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &TableService{
		serviceClient:     client,
		transactionsTable: transactionsTable,
		netWorthTable:     netWorthTable,
		holdingsTable:     holdingsTable,
	}

	if err := svc.CreateTables(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	slog.Info("table service initialized",
		"table_url", serviceURL,
		"transactions_table", transactionsTable,
		"networth_table", netWorthTable,
		"holdings_table", holdingsTable,
	)
	return svc, nil
}

// CreateTables ensures all required tables exist.
func (s *TableService) CreateTables(ctx context.Context) error {
	tables := []string{s.transactionsTable, s.netWorthTable, s.holdingsTable}

	for _, tableName := range tables {
		_, err := s.serviceClient.CreateTable(ctx, tableName, nil)
		if err != nil {
			// Ignore error if table already exists
			var azErr *azcore.ResponseError
			if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}
	return nil
}

func (s *TableService) getClient(tableName string) *aztables.Client {
	return s.serviceClient.NewClient(tableName)
}

// transactionRowKey generates a deterministic unique key for a transaction.
// index disambiguates identical rows within one upload.
func transactionRowKey(t models.Transaction, index int) string {
	uniqueString := fmt.Sprintf("%s|%s|%s|%s|%d",
		t.Date.Format("2006-01-02"), t.Description, t.Amount.String(), t.Type, index)
	hash := sha256.Sum256([]byte(uniqueString))
	return hex.EncodeToString(hash[:])
}

// SaveTransactions saves normalized transactions using batched upserts,
// partitioned by month. It deduplicates against existing RowKeys and
// returns the transactions that were actually new.
func (s *TableService) SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	if len(transactions) == 0 {
		return []models.Transaction{}, nil
	}

	client := s.getClient(s.transactionsTable)

	// Group transactions by partition key (flows_YYYY-MM).
	partitions := make(map[string][]models.Transaction)
	for _, t := range transactions {
		pk := "flows_" + t.Month
		partitions[pk] = append(partitions[pk], t)
	}

	var newTransactions []models.Transaction

	for pk, batchTxs := range partitions {
		// 1. Compute row keys, disambiguating duplicates within the upload.
		occurrences := make(map[string]int)
		type txWithKey struct {
			t   models.Transaction
			key string
		}
		var keyed []txWithKey

		for _, t := range batchTxs {
			sig := fmt.Sprintf("%s|%s|%s|%s",
				t.Date.Format("2006-01-02"), t.Description, t.Amount.String(), t.Type)
			idx := occurrences[sig]
			occurrences[sig]++
			keyed = append(keyed, txWithKey{t, transactionRowKey(t, idx)})
		}

		// 2. Query existing row keys for deduplication.
		existingKeys, err := s.listRowKeys(ctx, client, pk)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing transactions: %w", err)
		}

		// 3. Prepare batch of genuinely new rows.
		var batch []aztables.TransactionAction
		timestamp := time.Now().Format(time.RFC3339)

		for _, item := range keyed {
			if existingKeys[item.key] {
				continue
			}
			newTransactions = append(newTransactions, item.t)

			entity := map[string]any{
				"PartitionKey": pk,
				"RowKey":       item.key,
				"Date":         item.t.Date.Format("2006-01-02"),
				"Description":  item.t.Description,
				"Amount":       item.t.Amount.InexactFloat64(),
				"Type":         string(item.t.Type),
				"Category":     string(item.t.Category),
				"ImportedAt":   timestamp,
			}
			entityJSON, _ := json.Marshal(entity)
			batch = append(batch, aztables.TransactionAction{
				ActionType: aztables.TransactionTypeInsertReplace,
				Entity:     entityJSON,
			})
		}

		if err := s.submitBatches(ctx, client, batch); err != nil {
			return nil, err
		}
	}

	return newTransactions, nil
}

// GetTransactions retrieves all stored transactions.
func (s *TableService) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	client := s.getClient(s.transactionsTable)
	pager := client.NewListEntitiesPager(nil)

	var txs []models.Transaction
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			date, err := csvparse.ParseDate(getString(parsed, "Date"))
			if err != nil {
				slog.Warn("skipping transaction with bad stored date", "row_key", getString(parsed, "RowKey"))
				continue
			}

			txs = append(txs, models.Transaction{
				Date:        date,
				Description: getString(parsed, "Description"),
				Amount:      getDecimal(parsed, "Amount"),
				Type:        models.TransactionType(getString(parsed, "Type")),
				Category:    models.Category(getString(parsed, "Category")),
				Month:       date.Format(models.MonthKeyLayout),
			})
		}
	}

	return txs, nil
}

// SaveNetWorthSamples upserts net worth samples, keyed by date.
func (s *TableService) SaveNetWorthSamples(ctx context.Context, samples []models.NetWorthSample) error {
	if len(samples) == 0 {
		return nil
	}

	client := s.getClient(s.netWorthTable)

	var batch []aztables.TransactionAction
	for _, sample := range samples {
		entity := map[string]any{
			"PartitionKey": netWorthPartition,
			"RowKey":       sample.Date.Format("2006-01-02"),
			"Date":         sample.Date.Format("2006-01-02"),
			"NetWorth":     sample.NetWorth.InexactFloat64(),
		}
		entityJSON, _ := json.Marshal(entity)
		batch = append(batch, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJSON,
		})
	}

	return s.submitBatches(ctx, client, batch)
}

// GetNetWorthSamples retrieves all net worth samples ordered by date.
// RowKeys are ISO dates, so table order is already chronological.
func (s *TableService) GetNetWorthSamples(ctx context.Context) ([]models.NetWorthSample, error) {
	client := s.getClient(s.netWorthTable)
	pager := client.NewListEntitiesPager(nil)

	var samples []models.NetWorthSample
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list net worth samples: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			date, err := csvparse.ParseDate(getString(parsed, "Date"))
			if err != nil {
				continue
			}

			samples = append(samples, models.NetWorthSample{
				Date:     date,
				NetWorth: getDecimal(parsed, "NetWorth"),
			})
		}
	}

	return samples, nil
}

// GetHoldings retrieves all portfolio holdings.
func (s *TableService) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	client := s.getClient(s.holdingsTable)

	filter := fmt.Sprintf("PartitionKey eq '%s'", holdingsPartition)
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})

	var holdings []models.Holding
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list holdings: %w", err)
		}

		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}

			holdings = append(holdings, models.Holding{
				ID:       getString(parsed, "RowKey"),
				Symbol:   getString(parsed, "Symbol"),
				Quantity: getDecimal(parsed, "Quantity"),
			})
		}
	}

	return holdings, nil
}

// SaveHolding upserts a single holding.
func (s *TableService) SaveHolding(ctx context.Context, holding models.Holding) error {
	client := s.getClient(s.holdingsTable)

	entity := map[string]any{
		"PartitionKey": holdingsPartition,
		"RowKey":       holding.ID,
		"Symbol":       holding.Symbol,
		"Quantity":     holding.Quantity.InexactFloat64(),
	}

	entityJSON, _ := json.Marshal(entity)
	_, err := client.UpsertEntity(ctx, entityJSON, nil)
	return err
}

// DeleteHolding deletes a holding by its ID (RowKey).
func (s *TableService) DeleteHolding(ctx context.Context, id string) error {
	client := s.getClient(s.holdingsTable)

	_, err := client.DeleteEntity(ctx, holdingsPartition, id, nil)
	return err
}

// ReplaceHoldings replaces the stored holdings set with the given one,
// upserting new rows and deleting rows no longer present. Holdings without
// an ID get a deterministic key derived from the symbol, so re-importing
// the same portfolio CSV is a no-op.
func (s *TableService) ReplaceHoldings(ctx context.Context, holdings []models.Holding) error {
	client := s.getClient(s.holdingsTable)

	existing, err := s.listRowKeys(ctx, client, holdingsPartition)
	if err != nil {
		return fmt.Errorf("failed to list existing holdings: %w", err)
	}

	var batch []aztables.TransactionAction
	newKeys := make(map[string]bool, len(holdings))

	for _, h := range holdings {
		rowKey := h.ID
		if rowKey == "" {
			hash := sha256.Sum256([]byte(h.Symbol))
			rowKey = hex.EncodeToString(hash[:])
		}
		newKeys[rowKey] = true

		entity := map[string]any{
			"PartitionKey": holdingsPartition,
			"RowKey":       rowKey,
			"Symbol":       h.Symbol,
			"Quantity":     h.Quantity.InexactFloat64(),
		}
		entityJSON, _ := json.Marshal(entity)
		batch = append(batch, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJSON,
		})
	}

	for rk := range existing {
		if !newKeys[rk] {
			entity := map[string]any{
				"PartitionKey": holdingsPartition,
				"RowKey":       rk,
			}
			entityJSON, _ := json.Marshal(entity)
			batch = append(batch, aztables.TransactionAction{
				ActionType: aztables.TransactionTypeDelete,
				Entity:     entityJSON,
			})
		}
	}

	return s.submitBatches(ctx, client, batch)
}

// listRowKeys returns the set of RowKeys present in a partition.
func (s *TableService) listRowKeys(ctx context.Context, client *aztables.Client, partitionKey string) (map[string]bool, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", partitionKey)
	selectFields := "RowKey"
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Select: &selectFields,
	})

	keys := make(map[string]bool)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			if rk := getString(parsed, "RowKey"); rk != "" {
				keys[rk] = true
			}
		}
	}
	return keys, nil
}

// submitBatches submits table transaction actions in chunks of 100, the
// service's per-batch limit.
func (s *TableService) submitBatches(ctx context.Context, client *aztables.Client, batch []aztables.TransactionAction) error {
	const batchSize = 100
	for i := 0; i < len(batch); i += batchSize {
		end := min(i+batchSize, len(batch))
		if _, err := client.SubmitTransaction(ctx, batch[i:end], nil); err != nil {
			return fmt.Errorf("failed to submit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func getString(parsed map[string]any, key string) string {
	if v, ok := parsed[key].(string); ok {
		return v
	}
	return ""
}

func getDecimal(parsed map[string]any, key string) decimal.Decimal {
	if v, ok := parsed[key].(string); ok {
		d, _ := decimal.NewFromString(v)
		return d
	}
	if v, ok := parsed[key].(float64); ok {
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}
