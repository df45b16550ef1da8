package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/transition"
)

func TestLoadRulesEmptyPath(t *testing.T) {
	rs, err := LoadRules("")
	if err != nil {
		t.Fatalf("Empty path should yield an empty rule set: %v", err)
	}

	w := rs.ScorerWeights()
	if w.TypeMatch != 30 || w.TotalCap != 100 {
		t.Errorf("Empty rule set should keep the default weights: %+v", w)
	}
	if opts := rs.ProfilerOptions(); len(opts) != 0 {
		t.Errorf("Empty rule set should produce no profiler options, got %d", len(opts))
	}
}

func TestLoadRulesOverrides(t *testing.T) {
	content := `weights:
  type_match: 40
  total_cap: 120
high_energy_keywords: [turbo, blazing]
pair_rules:
  - from: hook
    to: summary
    effect: slideRight
    reason: house style
transition_durations:
  slideRight: 0.4
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}

	w := rs.ScorerWeights()
	if w.TypeMatch != 40 {
		t.Errorf("Expected type_match 40, got %.0f", w.TypeMatch)
	}
	if w.TotalCap != 120 {
		t.Errorf("Expected total_cap 120, got %.0f", w.TotalCap)
	}
	// untouched factors keep their defaults
	if w.TagOverlap != 30 {
		t.Errorf("Expected default tag_overlap 30, got %.0f", w.TagOverlap)
	}

	if opts := rs.ProfilerOptions(); len(opts) == 0 {
		t.Error("Keyword override should produce profiler options")
	}

	pairs, durations := rs.TransitionTables()
	rule, ok := pairs[transition.Pair{From: script.LabelHook, To: script.LabelSummary}]
	if !ok {
		t.Fatal("Custom pair rule missing")
	}
	if rule.Effect != transition.EffectSlideRight {
		t.Errorf("Expected slideRight, got %s", rule.Effect)
	}
	// defaults survive alongside the override
	if _, ok := pairs[transition.Pair{From: script.LabelBackground, To: script.LabelMainContent}]; !ok {
		t.Error("Default pair rules should be preserved")
	}
	if durations[transition.EffectSlideRight] != 0.4 {
		t.Errorf("Duration override not applied: %.1f", durations[transition.EffectSlideRight])
	}
	if durations[transition.EffectFade] != 1.0 {
		t.Errorf("Default durations should be preserved: %.1f", durations[transition.EffectFade])
	}
}

func TestLoadRulesRejectsUnknownEffect(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"pair rule typo", "pair_rules:\n  - from: hook\n    to: summary\n    effect: crosfade\n"},
		{"duration typo", "transition_durations:\n  zoomin: 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("Expected a load error for the misspelled effect")
			}
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing rules file")
	}
}
