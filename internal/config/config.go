package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		BlobURL  string `yaml:"blob_url"`
		QueueURL string `yaml:"queue_url"`
		TableURL string `yaml:"table_url"`

		UploadsContainer string `yaml:"uploads_container"`
		ReportsContainer string `yaml:"reports_container"`
		ProcessQueue     string `yaml:"process_queue"`

		TransactionsTable string `yaml:"transactions_table"`
		NetWorthTable     string `yaml:"networth_table"`
		HoldingsTable     string `yaml:"holdings_table"`
	} `yaml:"storage"`
	Email struct {
		Endpoint  string `yaml:"endpoint"`
		Sender    string `yaml:"sender"`
		Recipient string `yaml:"recipient"`
	} `yaml:"email"`
	Pricing struct {
		Source       string            `yaml:"source"` // "static" or "quotes"
		QuoteBaseURL string            `yaml:"quote_base_url"`
		Static       map[string]string `yaml:"static"`
	} `yaml:"pricing"`
	Schedule struct {
		NightlyCron string `yaml:"nightly_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: env vars and
// defaults alone can fully configure the server.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("BLOB_SERVICE_URL"); v != "" {
		cfg.Storage.BlobURL = v
	}
	if v := os.Getenv("QUEUE_SERVICE_URL"); v != "" {
		cfg.Storage.QueueURL = v
	}
	if v := os.Getenv("TABLE_SERVICE_URL"); v != "" {
		cfg.Storage.TableURL = v
	}
	if v := os.Getenv("COMMUNICATION_SERVICES_ENDPOINT"); v != "" {
		cfg.Email.Endpoint = v
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("USER_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
	if v := os.Getenv("PRICE_SOURCE"); v != "" {
		cfg.Pricing.Source = v
	}
	if v := os.Getenv("NIGHTLY_CRON"); v != "" {
		cfg.Schedule.NightlyCron = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Storage.UploadsContainer == "" {
		cfg.Storage.UploadsContainer = "uploads"
	}
	if cfg.Storage.ReportsContainer == "" {
		cfg.Storage.ReportsContainer = "reports"
	}
	if cfg.Storage.ProcessQueue == "" {
		cfg.Storage.ProcessQueue = "process-queue"
	}
	if cfg.Storage.TransactionsTable == "" {
		cfg.Storage.TransactionsTable = "transactions"
	}
	if cfg.Storage.NetWorthTable == "" {
		cfg.Storage.NetWorthTable = "networth"
	}
	if cfg.Storage.HoldingsTable == "" {
		cfg.Storage.HoldingsTable = "holdings"
	}
	if cfg.Pricing.Source == "" {
		cfg.Pricing.Source = "static"
	}
	if cfg.Schedule.NightlyCron == "" {
		cfg.Schedule.NightlyCron = "0 0 6 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Storage.BlobURL == "" {
		return fmt.Errorf("storage.blob_url is required")
	}
	if c.Storage.QueueURL == "" {
		return fmt.Errorf("storage.queue_url is required")
	}
	if c.Storage.TableURL == "" {
		return fmt.Errorf("storage.table_url is required")
	}
	if c.Pricing.Source != "static" && c.Pricing.Source != "quotes" {
		return fmt.Errorf("pricing.source must be \"static\" or \"quotes\", got %q", c.Pricing.Source)
	}
	return nil
}
