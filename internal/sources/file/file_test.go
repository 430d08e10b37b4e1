package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"txdash/internal/core"
)

func TestFetchFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	doc := `{"customers":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],
	"transactions":[{"id":10,"customer_id":1,"date":"2024-01-01","amount":50}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ds, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(ds.Customers) != 2 || ds.Customers[1].Name != "Bob" {
		t.Fatalf("unexpected customers: %+v", ds.Customers)
	}
	if len(ds.Transactions) != 1 {
		t.Fatalf("unexpected transactions: %+v", ds.Transactions)
	}
}

func TestFetchMissingFile(t *testing.T) {
	s, _ := New(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFetchMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"customers":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := New(path)
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing transactions key")
	}
}

func TestSaveThenFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	s, _ := New(path)
	in := core.Dataset{
		Customers:    []core.Customer{{ID: core.NewID(3), Name: "Cleo"}},
		Transactions: []core.Transaction{{ID: core.NewID(1), CustomerID: core.NewID(3), Date: "2024-02-02", Amount: 12.5}},
	}
	if err := s.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !out.Transactions[0].CustomerID.StrictEqual(core.NewID(3)) || out.Transactions[0].Amount != 12.5 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error")
	}
	s, _ := New("./data/x.json")
	if s.Name() != "file:data/x.json" {
		t.Fatalf("name=%q", s.Name())
	}
}
