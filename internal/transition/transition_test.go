package transition

import (
	"testing"

	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/script"
)

func TestPairRuleTakesPrecedence(t *testing.T) {
	r := NewResolver(nil, nil)

	// background -> main_content has an explicit rule even though the
	// energy delta (4.0 -> 7.0) would resolve on its own
	from := profile.Profile{Energy: 4.0}
	to := profile.Profile{Energy: 7.0}
	d := r.Resolve(from,
		script.Section{Index: 1, Label: script.LabelBackground},
		to,
		script.Section{Index: 2, Label: script.LabelMainContent})

	if d.Effect != EffectZoomIn {
		t.Errorf("Expected zoomIn from the pair rule, got %s", d.Effect)
	}
	if d.Duration != 0.8 {
		t.Errorf("Expected zoomIn duration 0.8, got %.1f", d.Duration)
	}
	if d.Reason == "" {
		t.Error("Decision should carry a reason")
	}
	if d.FromIndex != 1 || d.ToIndex != 2 {
		t.Errorf("Wrong indexes: %d -> %d", d.FromIndex, d.ToIndex)
	}
}

func TestEnergyDeltaRules(t *testing.T) {
	r := NewResolver(nil, nil)

	// custom labels have no pair rule, so the delta decides
	cases := []struct {
		from, to float64
		effect   Effect
	}{
		{2.0, 6.0, EffectZoomIn},   // rising by more than 3
		{8.0, 3.0, EffectFade},     // dropping by more than 3
		{5.0, 6.0, EffectCrossfade},
		{5.0, 5.0, EffectCrossfade},
		{5.0, 8.0, EffectCrossfade}, // delta exactly 3 is not an emphasis move
	}

	for _, c := range cases {
		d := r.Resolve(
			profile.Profile{Energy: c.from}, script.Section{Index: 1, Label: script.LabelCustom},
			profile.Profile{Energy: c.to}, script.Section{Index: 2, Label: script.LabelCustom})
		if d.Effect != c.effect {
			t.Errorf("Delta %.1f -> %.1f: expected %s, got %s", c.from, c.to, c.effect, d.Effect)
		}
	}
}

func TestDurationsAreEffectTyped(t *testing.T) {
	durations := DefaultDurations()
	want := map[Effect]float64{
		EffectFade:      1.0,
		EffectCrossfade: 1.5,
		EffectZoomIn:    0.8,
		EffectZoomOut:   1.2,
		EffectSlideLeft: 0.6,
		EffectNone:      0,
	}
	for effect, dur := range want {
		if durations[effect] != dur {
			t.Errorf("%s: expected %.1fs, got %.1fs", effect, dur, durations[effect])
		}
	}
}

func TestUnknownEffectDurationFallsBack(t *testing.T) {
	r := NewResolver(
		map[Pair]PairRule{
			{script.LabelHook, script.LabelSummary}: {Effect: Effect("spin"), Reason: "custom table"},
		},
		map[Effect]float64{})

	d := r.Resolve(
		profile.Profile{Energy: 9}, script.Section{Index: 1, Label: script.LabelHook},
		profile.Profile{Energy: 5}, script.Section{Index: 2, Label: script.LabelSummary})

	if d.Duration != 1.0 {
		t.Errorf("Unknown effect should default to 1.0s, got %.1f", d.Duration)
	}
}

func TestPairRulesUseKnownVocabulary(t *testing.T) {
	known := make(map[script.Label]struct{})
	for _, l := range script.Labels() {
		known[l] = struct{}{}
	}

	durations := DefaultDurations()
	for pair, rule := range DefaultPairRules() {
		if _, ok := known[pair.From]; !ok {
			t.Errorf("Pair rule from unknown label %s", pair.From)
		}
		if _, ok := known[pair.To]; !ok {
			t.Errorf("Pair rule to unknown label %s", pair.To)
		}
		if _, ok := durations[rule.Effect]; !ok {
			t.Errorf("Effect %s has no typed duration", rule.Effect)
		}
		if !KnownEffect(rule.Effect) {
			t.Errorf("Effect %s is outside the closed vocabulary", rule.Effect)
		}
	}

	if KnownEffect(Effect("crosfade")) {
		t.Error("A misspelled effect must not pass the vocabulary check")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver(nil, nil)
	from := profile.Profile{Energy: 6.2}
	to := profile.Profile{Energy: 6.8}
	a := script.Section{Index: 3, Label: script.LabelMainContent}
	b := script.Section{Index: 4, Label: script.LabelMainContent}

	first := r.Resolve(from, a, to, b)
	for i := 0; i < 10; i++ {
		if got := r.Resolve(from, a, to, b); got != first {
			t.Fatalf("Resolution changed between runs: %+v vs %+v", first, got)
		}
	}
	if first.Effect != EffectCrossfade {
		t.Errorf("main_content -> main_content should crossfade, got %s", first.Effect)
	}
}
