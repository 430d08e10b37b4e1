package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	logger := SetupLogger("error")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("TXDASH_CLI_TEST=from-file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TXDASH_CLI_TEST", "")
	os.Unsetenv("TXDASH_CLI_TEST")

	LoadEnvFile(logger, path)
	if got := os.Getenv("TXDASH_CLI_TEST"); got != "from-file" {
		t.Fatalf("TXDASH_CLI_TEST=%q", got)
	}

	// missing files are ignored
	LoadEnvFile(logger, filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	logger := SetupLogger("error")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("TXDASH_CLI_KEEP=file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TXDASH_CLI_KEEP", "env")

	LoadEnvFile(logger, path)
	if got := os.Getenv("TXDASH_CLI_KEEP"); got != "env" {
		t.Fatalf("TXDASH_CLI_KEEP=%q, want env", got)
	}
}

func TestSetupLoggerFallsBack(t *testing.T) {
	if l := SetupLogger("nonsense"); l == nil {
		t.Fatal("expected logger")
	}
}
