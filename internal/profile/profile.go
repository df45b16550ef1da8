package profile

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/script2video/internal/script"
)

// Emotion is a tag from the closed emotion set.
type Emotion string

const (
	EmotionExcitement Emotion = "excitement"
	EmotionCuriosity  Emotion = "curiosity"
	EmotionCalm       Emotion = "calm"
	EmotionFocus      Emotion = "focus"
	EmotionInspired   Emotion = "inspired"
	EmotionSatisfied  Emotion = "satisfied"
	EmotionMotivated  Emotion = "motivated"
	EmotionNeutral    Emotion = "neutral"
)

// Pace is the narration tempo of a section.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceMedium Pace = "medium"
	PaceFast   Pace = "fast"
)

// Profile is the derived semantic descriptor of one section. It is
// recomputed on every run and never persisted on its own.
type Profile struct {
	Energy      float64
	Emotion     Emotion
	Pace        Pace
	VisualStyle string
	KeywordHits []string
}

// BaseProfile is the per-label starting point before keyword adjustment.
type BaseProfile struct {
	Energy      float64
	Emotion     Emotion
	Pace        Pace
	VisualStyle string
}

// DefaultBaseProfiles returns the label lookup table. Values follow the
// narrative-arc conventions: hooks run hot, background runs calm.
func DefaultBaseProfiles() map[script.Label]BaseProfile {
	return map[script.Label]BaseProfile{
		script.LabelHook:         {Energy: 9.0, Emotion: EmotionExcitement, Pace: PaceFast, VisualStyle: "dynamic"},
		script.LabelIntroduction: {Energy: 6.0, Emotion: EmotionCuriosity, Pace: PaceMedium, VisualStyle: "smooth"},
		script.LabelBackground:   {Energy: 4.0, Emotion: EmotionCalm, Pace: PaceSlow, VisualStyle: "educational"},
		script.LabelMainContent:  {Energy: 7.0, Emotion: EmotionFocus, Pace: PaceMedium, VisualStyle: "explanatory"},
		script.LabelApplication:  {Energy: 6.5, Emotion: EmotionInspired, Pace: PaceMedium, VisualStyle: "practical"},
		script.LabelSummary:      {Energy: 5.0, Emotion: EmotionSatisfied, Pace: PaceSlow, VisualStyle: "conclusive"},
		script.LabelCallToAction: {Energy: 8.5, Emotion: EmotionMotivated, Pace: PaceFast, VisualStyle: "engaging"},
	}
}

var neutralBase = BaseProfile{Energy: 5.0, Emotion: EmotionNeutral, Pace: PaceMedium, VisualStyle: "neutral"}

// Lexicon holds the fixed token sets used for energy adjustment.
type Lexicon struct {
	HighEnergy []string
	Calming    []string
}

// DefaultLexicon returns the built-in high-energy and calming token sets.
func DefaultLexicon() Lexicon {
	return Lexicon{
		HighEnergy: []string{
			"astonishing", "amazing", "stunning", "shocking", "breakthrough",
			"discovery", "revolutionary", "incredible", "unbelievable",
			"explosive", "massive", "critical", "essential", "remarkable",
			"secret", "game-changing", "mind-blowing", "dramatic",
		},
		Calming: []string{
			"basic", "basics", "simple", "simply", "gentle", "steady",
			"gradually", "slowly", "calm", "easy", "relaxed", "familiar",
			"foundation", "overview", "understand", "smooth",
		},
	}
}

const (
	hitDelta    = 0.3
	hitDeltaCap = 2.0
)

// Profiler derives semantic profiles from script sections. The rule tables
// are injected at construction so tests can substitute alternate sets.
// When Analyzer is non-nil its result fully overrides the rule-based path;
// any analyzer failure falls back silently.
type Profiler struct {
	bases    map[script.Label]BaseProfile
	lexicon  Lexicon
	analyzer Analyzer
	logger   zerolog.Logger
}

// Option customises a Profiler.
type Option func(*Profiler)

// WithAnalyzer attaches an external semantic-analysis collaborator.
func WithAnalyzer(a Analyzer) Option {
	return func(p *Profiler) { p.analyzer = a }
}

// WithBaseProfiles replaces the label lookup table.
func WithBaseProfiles(bases map[script.Label]BaseProfile) Option {
	return func(p *Profiler) { p.bases = bases }
}

// WithLexicon replaces the keyword token sets.
func WithLexicon(lex Lexicon) Option {
	return func(p *Profiler) { p.lexicon = lex }
}

// NewProfiler creates a Profiler with the default rule tables.
func NewProfiler(logger zerolog.Logger, opts ...Option) *Profiler {
	p := &Profiler{
		bases:   DefaultBaseProfiles(),
		lexicon: DefaultLexicon(),
		logger:  logger.With().Str("component", "profiler").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile derives the semantic profile for one section. It never fails:
// unknown labels and empty narration yield the neutral base, and analyzer
// errors degrade to the rule-based result.
func (p *Profiler) Profile(ctx context.Context, sec script.Section) Profile {
	ruleBased := p.ruleProfile(sec)

	if p.analyzer == nil {
		return ruleBased
	}

	ext, err := p.analyzer.Analyze(ctx, sec.Narration)
	if err != nil {
		p.logger.Debug().Err(err).Int("section", sec.Index).Msg("semantic analyzer unavailable, using rule profile")
		return ruleBased
	}
	return ext
}

func (p *Profiler) ruleProfile(sec script.Section) Profile {
	base, ok := p.bases[sec.Label]
	if !ok {
		base = neutralBase
	}

	text := strings.ToLower(sec.Narration)
	var hits []string
	var highDelta, calmDelta float64

	for _, token := range p.lexicon.HighEnergy {
		if strings.Contains(text, token) {
			hits = append(hits, token)
			highDelta += hitDelta
		}
	}
	for _, token := range p.lexicon.Calming {
		if strings.Contains(text, token) {
			hits = append(hits, token)
			calmDelta += hitDelta
		}
	}

	energy := base.Energy + math.Min(highDelta, hitDeltaCap) - math.Min(calmDelta, hitDeltaCap)

	return Profile{
		Energy:      clampEnergy(energy),
		Emotion:     base.Emotion,
		Pace:        base.Pace,
		VisualStyle: base.VisualStyle,
		KeywordHits: hits,
	}
}

func clampEnergy(e float64) float64 {
	if e < 0 {
		return 0
	}
	if e > 10 {
		return 10
	}
	return math.Round(e*10) / 10
}
