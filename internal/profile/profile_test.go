package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivlev/script2video/internal/script"
)

func newTestProfiler(opts ...Option) *Profiler {
	return NewProfiler(zerolog.Nop(), opts...)
}

func TestBaseProfilePerLabel(t *testing.T) {
	p := newTestProfiler()

	cases := []struct {
		label  script.Label
		energy float64
		pace   Pace
	}{
		{script.LabelHook, 9.0, PaceFast},
		{script.LabelIntroduction, 6.0, PaceMedium},
		{script.LabelBackground, 4.0, PaceSlow},
		{script.LabelMainContent, 7.0, PaceMedium},
		{script.LabelApplication, 6.5, PaceMedium},
		{script.LabelSummary, 5.0, PaceSlow},
		{script.LabelCallToAction, 8.5, PaceFast},
	}

	for _, c := range cases {
		prof := p.Profile(context.Background(), script.Section{Index: 1, Label: c.label, TargetDuration: 5})
		if prof.Energy != c.energy {
			t.Errorf("%s: expected energy %.1f, got %.1f", c.label, c.energy, prof.Energy)
		}
		if prof.Pace != c.pace {
			t.Errorf("%s: expected pace %s, got %s", c.label, c.pace, prof.Pace)
		}
	}
}

func TestBaseProfilesCoverVocabulary(t *testing.T) {
	bases := DefaultBaseProfiles()
	for _, l := range script.Labels() {
		if l == script.LabelCustom {
			// custom sections take the neutral profile instead of a
			// table entry
			if _, ok := bases[l]; ok {
				t.Error("custom label must not carry a base profile")
			}
			continue
		}
		if _, ok := bases[l]; !ok {
			t.Errorf("Label %s has no base profile", l)
		}
	}
}

func TestUnknownLabelGetsNeutralProfile(t *testing.T) {
	p := newTestProfiler()
	prof := p.Profile(context.Background(), script.Section{Index: 1, Label: script.LabelCustom, TargetDuration: 5})

	if prof.Energy != 5.0 {
		t.Errorf("Expected neutral energy 5.0, got %.1f", prof.Energy)
	}
	if prof.Emotion != EmotionNeutral {
		t.Errorf("Expected neutral emotion, got %s", prof.Emotion)
	}
}

func TestHighEnergyKeywordsRaiseEnergy(t *testing.T) {
	p := newTestProfiler()
	sec := script.Section{
		Index:          1,
		Label:          script.LabelHook,
		Narration:      "This discovery is astonishing and changes everything",
		TargetDuration: 5,
	}

	prof := p.Profile(context.Background(), sec)
	// hook base 9.0 + two hits
	if prof.Energy < 8.5 {
		t.Errorf("Expected energy >= 8.5 for a hot hook, got %.1f", prof.Energy)
	}
	if prof.Energy > 10 {
		t.Errorf("Energy exceeded clamp: %.1f", prof.Energy)
	}
	if len(prof.KeywordHits) != 2 {
		t.Errorf("Expected 2 keyword hits, got %v", prof.KeywordHits)
	}
}

func TestCalmingKeywordsLowerEnergy(t *testing.T) {
	p := newTestProfiler()
	sec := script.Section{
		Index:          1,
		Label:          script.LabelBackground,
		Narration:      "Let's slowly walk through the basics, keeping it simple",
		TargetDuration: 5,
	}

	prof := p.Profile(context.Background(), sec)
	if prof.Energy >= 4.0 {
		t.Errorf("Expected energy below the background base 4.0, got %.1f", prof.Energy)
	}
	if prof.Energy < 0 {
		t.Errorf("Energy below clamp: %.1f", prof.Energy)
	}
}

func TestKeywordDeltaIsCapped(t *testing.T) {
	p := newTestProfiler()
	// pile on far more than cap/0.3 hits
	sec := script.Section{
		Index: 1,
		Label: script.LabelSummary,
		Narration: "astonishing amazing stunning shocking breakthrough discovery " +
			"revolutionary incredible unbelievable explosive massive critical",
		TargetDuration: 5,
	}

	prof := p.Profile(context.Background(), sec)
	// summary base 5.0, adjustment capped at +2.0
	if prof.Energy != 7.0 {
		t.Errorf("Expected capped energy 7.0, got %.1f", prof.Energy)
	}
}

type stubAnalyzer struct {
	prof Profile
	err  error
}

func (s stubAnalyzer) Analyze(ctx context.Context, text string) (Profile, error) {
	return s.prof, s.err
}

func TestAnalyzerOverridesRules(t *testing.T) {
	want := Profile{Energy: 3.3, Emotion: EmotionCalm, Pace: PaceSlow, VisualStyle: "minimal"}
	p := newTestProfiler(WithAnalyzer(stubAnalyzer{prof: want}))

	got := p.Profile(context.Background(), script.Section{Index: 1, Label: script.LabelHook, TargetDuration: 5})
	if got.Energy != want.Energy || got.Emotion != want.Emotion {
		t.Errorf("Expected analyzer profile %+v, got %+v", want, got)
	}
}

func TestAnalyzerFailureFallsBackSilently(t *testing.T) {
	p := newTestProfiler(WithAnalyzer(stubAnalyzer{err: fmt.Errorf("connection refused")}))

	got := p.Profile(context.Background(), script.Section{Index: 1, Label: script.LabelHook, TargetDuration: 5})
	if got.Energy != 9.0 {
		t.Errorf("Expected rule-based hook energy 9.0 on analyzer failure, got %.1f", got.Energy)
	}
}

func TestClampEnergy(t *testing.T) {
	if got := clampEnergy(-1); got != 0 {
		t.Errorf("Expected 0, got %.1f", got)
	}
	if got := clampEnergy(12); got != 10 {
		t.Errorf("Expected 10, got %.1f", got)
	}
	if got := clampEnergy(5.55); got != 5.6 {
		t.Errorf("Expected rounding to 5.6, got %.2f", got)
	}
}
