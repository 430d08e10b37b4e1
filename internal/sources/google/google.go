// Package google reads customers and transactions from two tabs of a
// Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"txdash/internal/core"
	ports "txdash/internal/sources"
)

var _ ports.Source = (*Client)(nil)

type Config struct {
	SpreadsheetID     string
	CustomersSheet    string
	TransactionsSheet string
	// One of these supplies the service account; CredentialsFile falls back
	// to GOOGLE_APPLICATION_CREDENTIALS when both are empty.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	customersSheet    string
	transactionsSheet string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newWithService(svc, spreadsheetID, cfg.CustomersSheet, cfg.TransactionsSheet), nil
}

func newWithService(svc *gsheet.Service, spreadsheetID, customers, transactions string) *Client {
	if strings.TrimSpace(customers) == "" {
		customers = "Customers"
	}
	if strings.TrimSpace(transactions) == "" {
		transactions = "Transactions"
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		customersSheet:    strings.TrimSpace(customers),
		transactionsSheet: strings.TrimSpace(transactions),
	}
}

func (c *Client) Name() string { return "sheets:" + c.spreadsheetID }

// Fetch reads both tabs concurrently and fails if either read fails.
func (c *Client) Fetch(ctx context.Context) (core.Dataset, error) {
	if c.svc == nil {
		return core.Dataset{}, errors.New("sheets service not initialized")
	}

	var ds core.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := c.readRange(gctx, c.customersSheet)
		if err != nil {
			return err
		}
		ds.Customers, err = parseCustomers(values)
		return err
	})
	g.Go(func() error {
		values, err := c.readRange(gctx, c.transactionsSheet)
		if err != nil {
			return err
		}
		ds.Transactions, err = parseTransactions(values)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dataset{}, err
	}

	slog.DebugContext(ctx, "Fetched dataset from sheets",
		"spreadsheet_id", c.spreadsheetID,
		"customers", len(ds.Customers),
		"transactions", len(ds.Transactions))
	return ds, nil
}

func (c *Client) readRange(ctx context.Context, sheet string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(cfg.CredentialsJSON)
	credentialsFile := strings.TrimSpace(cfg.CredentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(creds),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}
