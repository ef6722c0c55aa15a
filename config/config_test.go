package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Encoder.MaxLength != 64 {
		t.Errorf("expected MaxLength=64, got %d", cfg.Encoder.MaxLength)
	}
	if cfg.Encoder.OutputDim != 32 {
		t.Errorf("expected OutputDim=32, got %d", cfg.Encoder.OutputDim)
	}
	if cfg.Train.Margin != 0.4 {
		t.Errorf("expected Margin=0.4, got %f", cfg.Train.Margin)
	}
	if cfg.Sampler.NegativesPerAnchor != 4 {
		t.Errorf("expected NegativesPerAnchor=4, got %d", cfg.Sampler.NegativesPerAnchor)
	}
	if cfg.Data.AddressColumn != "address" {
		t.Errorf("expected AddressColumn=address, got %s", cfg.Data.AddressColumn)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "addrvec.yaml")

	content := `
encoder:
  max_length: 48
  hidden_dim: 128
train:
  epochs: 12
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Encoder.MaxLength != 48 {
		t.Errorf("expected MaxLength=48, got %d", cfg.Encoder.MaxLength)
	}
	if cfg.Encoder.HiddenDim != 128 {
		t.Errorf("expected HiddenDim=128, got %d", cfg.Encoder.HiddenDim)
	}
	if cfg.Train.Epochs != 12 {
		t.Errorf("expected Epochs=12, got %d", cfg.Train.Epochs)
	}
	// Untouched sections keep their defaults.
	if cfg.Train.BatchSize != 32 {
		t.Errorf("expected BatchSize=32, got %d", cfg.Train.BatchSize)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "addrvec.yaml")

	content := `
sampler:
  negatives_per_anchor: 8
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sampler.NegativesPerAnchor != 8 {
		t.Errorf("expected NegativesPerAnchor=8, got %d", cfg.Sampler.NegativesPerAnchor)
	}
}

func TestModelDBPath(t *testing.T) {
	path := ModelDBPath("/home/user/data")
	expected := filepath.Join("/home/user/data", ".addrvec", "model.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
