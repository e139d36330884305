package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tieubaoca/docinsight-be/types"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "upload_dir: data/docs\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.UploadDir != "data/docs" {
		t.Errorf("expected configured upload dir, got %q", cfg.UploadDir)
	}
	if cfg.EmbeddingProvider != "openai" {
		t.Errorf("expected default provider openai, got %q", cfg.EmbeddingProvider)
	}
	if cfg.Analysis.MaxSections != 15 || cfg.Analysis.MinSections != 5 {
		t.Errorf("expected default section limits, got %+v", cfg.Analysis)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("expected default worker count, got %d", cfg.Analysis.Workers)
	}
	if cfg.Analysis.Weights.Numbering != 20 || cfg.Analysis.Weights.FontTier != 8 {
		t.Errorf("expected default heading weights, got %+v", cfg.Analysis.Weights)
	}
}

func TestLoadConfig_KeepsExplicitValues(t *testing.T) {
	path := writeConfigFile(t, `port: "9090"
analysis:
  max_sections: 30
  workers: 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected configured port, got %q", cfg.Port)
	}
	if cfg.Analysis.MaxSections != 30 || cfg.Analysis.Workers != 2 {
		t.Errorf("expected configured analysis values, got %+v", cfg.Analysis)
	}
	if cfg.Analysis.MinSections != 5 {
		t.Errorf("expected untouched fields to keep defaults, got %d", cfg.Analysis.MinSections)
	}
}

func TestLoadConfig_RejectsInvalidAnalysis(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative min_sections", "analysis:\n  min_sections: -1\n"},
		{"negative workers", "analysis:\n  workers: -2\n"},
		{"dedup fraction above one", "analysis:\n  dedup_recurrence_fraction: 1.5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.yaml)
			_, err := LoadConfig(path)
			if !errors.Is(err, types.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
