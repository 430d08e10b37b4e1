package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"txdash/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	cfg := &config.Config{DataBackend: "bogus"}
	if _, err := FromAppConfig(cfg); err == nil {
		t.Fatal("expected error for invalid backend")
	}

	cfg = &config.Config{DataBackend: "file", DataFile: "x.json", AMQPExchange: "ex"}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.Type != FileBackend || bc.DataFile != "x.json" || bc.AMQPExchange != "ex" {
		t.Fatalf("unexpected backend config: %+v", bc)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"invalid type", Config{Type: "memory"}, "invalid backend type"},
		{"remote without url", Config{Type: RemoteBackend}, "data URL"},
		{"file without path", Config{Type: FileBackend}, "data file"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite"},
		{"sheets without id", Config{Type: SheetsBackend}, "Spreadsheet ID"},
		{"remote ok", Config{Type: RemoteBackend, DataURL: "http://x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := `{"customers":[{"id":1,"name":"Alice"}],"transactions":[]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewFactory(nil)
	res, err := f.CreateSource(context.Background(), Config{Type: FileBackend, DataFile: path})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Cleanup != nil {
		t.Fatal("file source needs no cleanup")
	}
	ds, err := res.Source.Fetch(context.Background())
	if err != nil || len(ds.Customers) != 1 {
		t.Fatalf("fetch: %+v %v", ds, err)
	}
}

func TestCreateSQLiteSource(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateSource(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "t.db"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite source must be closed")
	}
	defer res.Cleanup()

	ds, err := res.Source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(ds.Customers) != 0 || len(ds.Transactions) != 0 {
		t.Fatalf("expected empty dataset, got %+v", ds)
	}
}

func TestCreateRemoteSource(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateSource(context.Background(), Config{Type: RemoteBackend, DataURL: "http://example.invalid/data.json"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Source.Name() != "http://example.invalid/data.json" {
		t.Fatalf("name=%q", res.Source.Name())
	}
}

func TestCreatePublisherDisabled(t *testing.T) {
	if p := NewFactory(nil).CreatePublisher(context.Background(), Config{}); p != nil {
		t.Fatal("expected nil publisher without AMQP URL")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "remote,file,sqlite,sheets" {
		t.Fatalf("got %s", got)
	}
}
