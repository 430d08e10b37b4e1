package backend

import (
	"context"
	"fmt"
	"log/slog"

	"txdash/internal/amqp"
	"txdash/internal/sources/file"
	gsheet "txdash/internal/sources/google"
	"txdash/internal/sources/remote"
	"txdash/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateSource(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case RemoteBackend:
		return f.createRemoteSource(cfg)
	case FileBackend:
		return f.createFileSource(cfg)
	case SQLiteBackend:
		return f.createSQLiteSource(cfg)
	case SheetsBackend:
		return f.createSheetsSource(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createRemoteSource(cfg Config) (*Result, error) {
	client, err := remote.New(cfg.DataURL, cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote source: %w", err)
	}
	f.logger.Info("Initialized remote source", "url", cfg.DataURL, "timeout", cfg.FetchTimeout)
	return &Result{Source: client}, nil
}

func (f *DefaultFactory) createFileSource(cfg Config) (*Result, error) {
	store, err := file.New(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file source: %w", err)
	}
	f.logger.Info("Initialized file source", "path", cfg.DataFile)
	return &Result{Source: store}, nil
}

func (f *DefaultFactory) createSQLiteSource(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite source", "db_path", cfg.SQLiteDBPath)
	return &Result{Source: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, cfg Config) (*Result, error) {
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:     cfg.GoogleSpreadsheetID,
		CustomersSheet:    cfg.GoogleCustomersSheet,
		TransactionsSheet: cfg.GoogleTransactionsSheet,
		CredentialsJSON:   cfg.GoogleServiceAccountJSON,
		CredentialsFile:   cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets source", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return &Result{Source: client}, nil
}

// CreatePublisher returns nil when AMQP is not configured or unreachable;
// the dashboard runs without load events in that case.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, cfg Config) Publisher {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without load events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)
	return client
}
