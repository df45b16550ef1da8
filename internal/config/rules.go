package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/scorer"
	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/transition"
)

// RuleSet bundles every injected lookup table of the decision core so an
// operator can tune them from one YAML file without rebuilding. Zero-value
// fields keep their built-in defaults.
type RuleSet struct {
	Weights      *scorer.Weights    `yaml:"weights,omitempty"`
	BaseProfiles []baseProfileRule  `yaml:"base_profiles,omitempty"`
	HighEnergy   []string           `yaml:"high_energy_keywords,omitempty"`
	Calming      []string           `yaml:"calming_keywords,omitempty"`
	PairRules    []pairRule         `yaml:"pair_rules,omitempty"`
	Durations    map[string]float64 `yaml:"transition_durations,omitempty"`
}

type baseProfileRule struct {
	Label       string  `yaml:"label"`
	Energy      float64 `yaml:"energy"`
	Emotion     string  `yaml:"emotion"`
	Pace        string  `yaml:"pace"`
	VisualStyle string  `yaml:"visual_style"`
}

type pairRule struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Effect string `yaml:"effect"`
	Reason string `yaml:"reason,omitempty"`
}

// LoadRules reads a rule-set file. A missing path returns an empty set.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return &RuleSet{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	// reject effect typos here instead of letting the resolver fall
	// back to a default duration at composition time
	for _, p := range rs.PairRules {
		if !transition.KnownEffect(transition.Effect(p.Effect)) {
			return nil, fmt.Errorf("rules: unknown transition effect %q for pair %s -> %s", p.Effect, p.From, p.To)
		}
	}
	for effect := range rs.Durations {
		if !transition.KnownEffect(transition.Effect(effect)) {
			return nil, fmt.Errorf("rules: unknown transition effect %q in durations", effect)
		}
	}
	return &rs, nil
}

// ScorerWeights returns the configured factor caps or the defaults.
func (r *RuleSet) ScorerWeights() scorer.Weights {
	if r.Weights == nil {
		return scorer.DefaultWeights()
	}
	w := *r.Weights
	d := scorer.DefaultWeights()
	if w.TypeMatch == 0 {
		w.TypeMatch = d.TypeMatch
	}
	if w.TagOverlap == 0 {
		w.TagOverlap = d.TagOverlap
	}
	if w.KeywordMatch == 0 {
		w.KeywordMatch = d.KeywordMatch
	}
	if w.RatingBonus == 0 {
		w.RatingBonus = d.RatingBonus
	}
	if w.UsageBonus == 0 {
		w.UsageBonus = d.UsageBonus
	}
	if w.TotalCap == 0 {
		w.TotalCap = d.TotalCap
	}
	return w
}

// ProfilerOptions converts lexicon and base-profile overrides into
// profiler options.
func (r *RuleSet) ProfilerOptions() []profile.Option {
	var opts []profile.Option

	if len(r.HighEnergy) > 0 || len(r.Calming) > 0 {
		lex := profile.DefaultLexicon()
		if len(r.HighEnergy) > 0 {
			lex.HighEnergy = r.HighEnergy
		}
		if len(r.Calming) > 0 {
			lex.Calming = r.Calming
		}
		opts = append(opts, profile.WithLexicon(lex))
	}

	if len(r.BaseProfiles) > 0 {
		bases := profile.DefaultBaseProfiles()
		for _, b := range r.BaseProfiles {
			bases[script.ParseLabel(b.Label)] = profile.BaseProfile{
				Energy:      b.Energy,
				Emotion:     profile.Emotion(b.Emotion),
				Pace:        profile.Pace(b.Pace),
				VisualStyle: b.VisualStyle,
			}
		}
		opts = append(opts, profile.WithBaseProfiles(bases))
	}
	return opts
}

// TransitionTables returns the pair-rule and duration tables, merging any
// overrides over the defaults.
func (r *RuleSet) TransitionTables() (map[transition.Pair]transition.PairRule, map[transition.Effect]float64) {
	pairs := transition.DefaultPairRules()
	for _, p := range r.PairRules {
		pairs[transition.Pair{From: script.ParseLabel(p.From), To: script.ParseLabel(p.To)}] = transition.PairRule{
			Effect: transition.Effect(p.Effect),
			Reason: p.Reason,
		}
	}

	durations := transition.DefaultDurations()
	for effect, dur := range r.Durations {
		durations[transition.Effect(effect)] = dur
	}
	return pairs, durations
}
