package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Storage != StorageSQLite {
		t.Errorf("expected storage=sqlite, got %s", cfg.Storage)
	}
	if cfg.Enhance.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("expected api_key_env=GEMINI_API_KEY, got %s", cfg.Enhance.APIKeyEnv)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("expected storage=sqlite, got %s", cfg.Storage)
	}
	if cfg.DataDir == "" {
		t.Error("expected a default data dir")
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.Storage = StorageFile
	cfg.DataDir = filepath.Join(tmpDir, "data")
	cfg.Enhance.Model = "gemini-2.5-pro"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage != StorageFile {
		t.Errorf("expected storage=file, got %s", loaded.Storage)
	}
	if loaded.DataDir != cfg.DataDir {
		t.Errorf("expected data_dir=%s, got %s", cfg.DataDir, loaded.DataDir)
	}
	if loaded.Enhance.Model != "gemini-2.5-pro" {
		t.Errorf("expected model=gemini-2.5-pro, got %s", loaded.Enhance.Model)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for unknown storage backend")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("VIDEOBOARD_TEST_KEY", "sk-test")

	cfg := Default()
	cfg.Enhance.APIKeyEnv = "VIDEOBOARD_TEST_KEY"
	if got := cfg.APIKey(); got != "sk-test" {
		t.Errorf("expected sk-test, got %s", got)
	}

	cfg.Enhance.APIKeyEnv = ""
	if got := cfg.APIKey(); got != "" {
		t.Errorf("expected empty key, got %s", got)
	}
}
