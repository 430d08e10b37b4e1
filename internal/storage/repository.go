// Package storage keeps a copy of the dataset in SQLite so the dashboard
// can start without network access.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"txdash/internal/core"
	ports "txdash/internal/sources"

	_ "modernc.org/sqlite"
)

var _ ports.Source = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite:" + r.path }

// Fetch returns both lists in insertion order.
func (r *SQLiteRepository) Fetch(ctx context.Context) (core.Dataset, error) {
	crows, err := r.queries.ListCustomers(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("list customers: %w", err)
	}
	trows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("list transactions: %w", err)
	}

	ds := core.Dataset{
		Customers:    make([]core.Customer, 0, len(crows)),
		Transactions: make([]core.Transaction, 0, len(trows)),
	}
	for _, c := range crows {
		ds.Customers = append(ds.Customers, core.Customer{
			ID:   core.RestoreID(c.ID, c.IDIsNumber),
			Name: c.Name,
		})
	}
	for _, t := range trows {
		ds.Transactions = append(ds.Transactions, core.Transaction{
			ID:         core.RestoreID(t.ID, t.IDIsNumber),
			CustomerID: core.RestoreID(t.CustomerID, t.CustomerIDIsNumber),
			Date:       t.Date,
			Amount:     t.Amount,
		})
	}
	return ds, nil
}

// ReplaceDataset swaps the stored dataset for ds in one transaction.
func (r *SQLiteRepository) ReplaceDataset(ctx context.Context, ds core.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err := q.DeleteCustomers(ctx); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}
	for i, c := range ds.Customers {
		if err := q.InsertCustomer(ctx, CustomerRow{
			Position:   int64(i),
			ID:         c.ID.String(),
			IDIsNumber: c.ID.IsNumber(),
			Name:       c.Name,
		}); err != nil {
			return fmt.Errorf("insert customer %s: %w", c.ID, err)
		}
	}
	for i, t := range ds.Transactions {
		if err := q.InsertTransaction(ctx, TransactionRow{
			Position:           int64(i),
			ID:                 t.ID.String(),
			IDIsNumber:         t.ID.IsNumber(),
			CustomerID:         t.CustomerID.String(),
			CustomerIDIsNumber: t.CustomerID.IsNumber(),
			Date:               t.Date,
			Amount:             t.Amount,
		}); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Dataset saved to SQLite",
		"path", r.path,
		"customers", len(ds.Customers),
		"transactions", len(ds.Transactions))
	return nil
}
