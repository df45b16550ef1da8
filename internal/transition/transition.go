package transition

import (
	"fmt"

	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/script"
)

// Effect is the visual bridge between two adjacent sections.
type Effect string

const (
	EffectFade       Effect = "fade"
	EffectCrossfade  Effect = "crossfade"
	EffectZoomIn     Effect = "zoomIn"
	EffectZoomOut    Effect = "zoomOut"
	EffectSlideLeft  Effect = "slideLeft"
	EffectSlideRight Effect = "slideRight"
	EffectNone       Effect = "none"
)

// KnownEffect reports whether e belongs to the closed effect vocabulary.
func KnownEffect(e Effect) bool {
	switch e {
	case EffectFade, EffectCrossfade, EffectZoomIn, EffectZoomOut,
		EffectSlideLeft, EffectSlideRight, EffectNone:
		return true
	}
	return false
}

// Decision is a fully resolved transition between two sections. Exactly
// one decision exists per adjacent pair.
type Decision struct {
	FromIndex int     `yaml:"from_index" json:"from_index"`
	ToIndex   int     `yaml:"to_index" json:"to_index"`
	Effect    Effect  `yaml:"effect" json:"effect"`
	Duration  float64 `yaml:"duration" json:"duration"`
	Reason    string  `yaml:"reason" json:"reason"`
}

// Pair keys the explicit rule table.
type Pair struct {
	From script.Label
	To   script.Label
}

// PairRule is an explicit narrative-arc convention for a label pair.
type PairRule struct {
	Effect Effect
	Reason string
}

// DefaultPairRules encodes the known narrative-arc conventions. These take
// precedence over any computed rule.
func DefaultPairRules() map[Pair]PairRule {
	return map[Pair]PairRule{
		{script.LabelHook, script.LabelIntroduction}:        {EffectZoomOut, "settling from the hook into the introduction"},
		{script.LabelHook, script.LabelBackground}:          {EffectFade, "easing from a hot open into background"},
		{script.LabelIntroduction, script.LabelBackground}:  {EffectFade, "smooth hand-off into background"},
		{script.LabelIntroduction, script.LabelMainContent}: {EffectSlideLeft, "logical advance into the core"},
		{script.LabelBackground, script.LabelMainContent}:   {EffectZoomIn, "pulling attention onto the core content"},
		{script.LabelBackground, script.LabelApplication}:   {EffectSlideLeft, "moving forward from basics to practice"},
		{script.LabelMainContent, script.LabelApplication}:  {EffectSlideLeft, "theory flowing into application"},
		{script.LabelMainContent, script.LabelSummary}:      {EffectZoomOut, "pulling back for the wrap-up"},
		{script.LabelMainContent, script.LabelMainContent}:  {EffectCrossfade, "continuing the core thread"},
		{script.LabelApplication, script.LabelSummary}:      {EffectFade, "calm close from practice to summary"},
		{script.LabelApplication, script.LabelCallToAction}: {EffectZoomIn, "re-energising for the ask"},
		{script.LabelSummary, script.LabelCallToAction}:     {EffectZoomIn, "lifting energy into the call to action"},
	}
}

// DefaultDurations returns the fixed per-effect durations in seconds.
// Durations are effect-typed, not content-dependent.
func DefaultDurations() map[Effect]float64 {
	return map[Effect]float64{
		EffectFade:       1.0,
		EffectCrossfade:  1.5,
		EffectZoomIn:     0.8,
		EffectZoomOut:    1.2,
		EffectSlideLeft:  0.6,
		EffectSlideRight: 0.6,
		EffectNone:       0,
	}
}

// energyDeltaThreshold separates "continuity" from "emphasis" moves.
const energyDeltaThreshold = 3.0

// Resolver picks transitions between adjacent sections. Rule tables are
// injected at construction; resolution is a pure function of the two
// profiles and labels, so identical scripts always produce identical
// transition sequences.
type Resolver struct {
	pairs     map[Pair]PairRule
	durations map[Effect]float64
}

// NewResolver creates a Resolver with the given rule tables; nil tables
// fall back to the defaults.
func NewResolver(pairs map[Pair]PairRule, durations map[Effect]float64) *Resolver {
	if pairs == nil {
		pairs = DefaultPairRules()
	}
	if durations == nil {
		durations = DefaultDurations()
	}
	return &Resolver{pairs: pairs, durations: durations}
}

// Resolve decides the transition from one section into the next.
// Resolution order: explicit pair rule, then energy delta, then the
// crossfade default.
func (r *Resolver) Resolve(from profile.Profile, fromSec script.Section, to profile.Profile, toSec script.Section) Decision {
	d := Decision{FromIndex: fromSec.Index, ToIndex: toSec.Index}

	if rule, ok := r.pairs[Pair{fromSec.Label, toSec.Label}]; ok {
		d.Effect = rule.Effect
		d.Reason = rule.Reason
		d.Duration = r.duration(rule.Effect)
		return d
	}

	delta := to.Energy - from.Energy
	switch {
	case delta > energyDeltaThreshold:
		d.Effect = EffectZoomIn
		d.Reason = fmt.Sprintf("energy rising by %.1f, emphasising the lift", delta)
	case delta < -energyDeltaThreshold:
		d.Effect = EffectFade
		d.Reason = fmt.Sprintf("energy dropping by %.1f, settling down", -delta)
	default:
		d.Effect = EffectCrossfade
		d.Reason = "energy level holding, keeping continuity"
	}
	d.Duration = r.duration(d.Effect)
	return d
}

func (r *Resolver) duration(e Effect) float64 {
	if dur, ok := r.durations[e]; ok {
		return dur
	}
	return 1.0
}
