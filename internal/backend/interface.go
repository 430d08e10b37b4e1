// Package backend turns configuration into a concrete dataset source.
package backend

import (
	"context"
	"time"

	"txdash/internal/amqp"
	"txdash/internal/sources"
)

type CleanupFunc func() error

// Result is a ready source plus whatever must be released on shutdown.
type Result struct {
	Source  sources.Source
	Cleanup CleanupFunc
}

// Publisher is the optional load-event sink.
type Publisher interface {
	PublishDatasetLoaded(ctx context.Context, msg *amqp.DatasetLoadedMessage) error
	Close() error
}

type Factory interface {
	CreateSource(ctx context.Context, cfg Config) (*Result, error)
	CreatePublisher(ctx context.Context, cfg Config) Publisher
}

type Config struct {
	Type BackendType

	// remote
	DataURL      string
	FetchTimeout time.Duration

	// file
	DataFile string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID      string
	GoogleCustomersSheet     string
	GoogleTransactionsSheet  string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// load events, optional
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

type BackendType string

const (
	RemoteBackend BackendType = "remote"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case RemoteBackend, FileBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
