package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	if cfg.Grid.CellSize != 40 {
		t.Errorf("expected default cell size 40, got %d", cfg.Grid.CellSize)
	}

	if cfg.Vision.Backend != "ollama" {
		t.Errorf("expected default backend ollama, got %s", cfg.Vision.Backend)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Grid.CellSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero cell size")
	}

	cfg = Default()
	cfg.Vision.Backend = "gpt4all"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg = Default()
	cfg.Vision.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty model")
	}

	cfg = Default()
	cfg.Input.SettleDelayMs = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative settle delay")
	}

	cfg = Default()
	cfg.Debug.Format = "bmp"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported debug format")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Grid.CellSize = 64
	cfg.Vision.Model = "llava"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Grid.CellSize != 64 {
		t.Errorf("expected cell size 64, got %d", loaded.Grid.CellSize)
	}
	if loaded.Vision.Model != "llava" {
		t.Errorf("expected model llava, got %s", loaded.Vision.Model)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
