package yaml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigRepository_LoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yml")
	testYAML := []byte(`root_dir: out
download_concurrency: 3
`)
	if err := os.WriteFile(path, testYAML, 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg, err := NewConfigRepository(path).LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.RootDir != "out" {
		t.Errorf("LoadConfig() RootDir = %v, want out", cfg.RootDir)
	}
	if cfg.DownloadConcurrency != 3 {
		t.Errorf("LoadConfig() DownloadConcurrency = %v, want 3", cfg.DownloadConcurrency)
	}
	if cfg.TestScript != "./test_px_on_minikube.sh" {
		t.Errorf("LoadConfig() TestScript = %v, want default", cfg.TestScript)
	}
}

func TestConfigRepository_LoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := NewConfigRepository("").LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RootDir != "minikubes" {
		t.Errorf("LoadConfig() RootDir = %v, want minikubes", cfg.RootDir)
	}
}

func TestConfigRepository_LoadConfig_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")

	_, err := NewConfigRepository(path).LoadConfig(context.Background())
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config not found") {
		t.Errorf("LoadConfig() error = %v, want config not found", err)
	}
}
