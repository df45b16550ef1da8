package config

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.MaterialsDir != "materials" {
		t.Errorf("Expected default materials dir, got %q", cfg.MaterialsDir)
	}
	if cfg.MinScore != 40 {
		t.Errorf("Expected default min score 40, got %.1f", cfg.MinScore)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.Width != 1280 || cfg.Height != 720 || cfg.FPS != 30 {
		t.Errorf("Unexpected frame defaults: %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("S2V_MATERIALS_DIR", "/srv/materials")
	t.Setenv("S2V_MIN_SCORE", "55.5")
	t.Setenv("S2V_PREFETCH_WORKERS", "3")
	t.Setenv("S2V_VERBOSE", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.MaterialsDir != "/srv/materials" {
		t.Errorf("Materials dir override not applied: %q", cfg.MaterialsDir)
	}
	if cfg.MinScore != 55.5 {
		t.Errorf("Min score override not applied: %.1f", cfg.MinScore)
	}
	if cfg.PrefetchWorkers != 3 {
		t.Errorf("Worker override not applied: %d", cfg.PrefetchWorkers)
	}
	if !cfg.Verbose {
		t.Error("Verbose override not applied")
	}
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("S2V_MIN_SCORE", "plenty")
	if _, err := FromEnv(); err == nil {
		t.Error("Expected an error for a non-numeric min score")
	}
}
