package composer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/scorer"
	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/timeline"
	"github.com/ivlev/script2video/internal/transition"
)

// Options tune one composition run.
type Options struct {
	// MinScore is the minimum acceptable candidate score; below it the
	// section is recorded as deficient instead of silently taking a poor
	// match.
	MinScore float64
	// Overrides maps section index to a fixed asset ID, bypassing scoring
	// for that section. Profiling, motion and transitions still run.
	Overrides map[int]string
	// Usage carries prior validated usage counts per asset ID.
	Usage scorer.UsageContext
	// Placeholder, when set, is substituted into sections that have no
	// acceptable candidate.
	Placeholder *asset.Asset
	// PlaceholderDir and ChannelURL enable the generated QR card fallback
	// for call_to_action sections when no Placeholder is configured.
	PlaceholderDir string
	ChannelURL     string
	// PrefetchWorkers bounds concurrent candidate retrieval. Zero means
	// sequential fetching.
	PrefetchWorkers int
	// MaxQueryTerms caps how many derived keywords go into a provider
	// search.
	MaxQueryTerms int
	// Title is carried into the plan artifact.
	Title string
}

// DefaultMinScore is the threshold below which a top candidate counts as
// "no suitable material".
const DefaultMinScore = 40.0

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.MinScore <= 0 {
		out.MinScore = DefaultMinScore
	}
	if out.MaxQueryTerms <= 0 {
		out.MaxQueryTerms = 5
	}
	return out
}

// Composer walks a script section by section and assembles a timeline
// plan. It performs no rendering and holds no rendering resources; all
// decisions come from the injected components.
type Composer struct {
	profiler *profile.Profiler
	scorer   *scorer.Scorer
	resolver *transition.Resolver
	motion   *motion.Generator
	provider asset.Provider
	logger   zerolog.Logger
}

// New wires a Composer from its components.
func New(p *profile.Profiler, s *scorer.Scorer, r *transition.Resolver, m *motion.Generator, provider asset.Provider, logger zerolog.Logger) (*Composer, error) {
	if p == nil || s == nil || r == nil || m == nil {
		return nil, fmt.Errorf("composer requires profiler, scorer, resolver and motion generator")
	}
	if provider == nil {
		return nil, fmt.Errorf("composer requires an asset provider")
	}
	return &Composer{
		profiler: p,
		scorer:   s,
		resolver: r,
		motion:   m,
		provider: provider,
		logger:   logger.With().Str("component", "composer").Logger(),
	}, nil
}

// Compose runs the full pipeline and returns an immutable timeline plan.
// Structural script problems fail before any processing; per-section
// problems are accumulated on the plan and never abort the run. A
// cancelled context discards all partial state and returns the error.
func (c *Composer) Compose(ctx context.Context, sections []script.Section, opts *Options) (*timeline.Plan, error) {
	o := opts.withDefaults()
	if err := script.Validate(sections); err != nil {
		return nil, err
	}

	profiles := c.profileAll(ctx, sections)

	pools, err := c.prefetch(ctx, sections, profiles, o)
	if err != nil {
		return nil, err
	}

	overrides, err := c.resolveOverrides(ctx, o)
	if err != nil {
		return nil, err
	}

	plan := &timeline.Plan{
		Version: timeline.Version,
		Title:   o.Title,
		Entries: make([]timeline.Entry, 0, len(sections)),
	}

	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("composition cancelled at section %d: %w", sec.Index, err)
		}

		entry := timeline.Entry{Section: sec, Status: timeline.SlotMissing}

		chosen, score, status, deficiency := c.chooseAsset(sec, profiles[i], pools[i], overrides, o)
		if deficiency != "" {
			plan.Deficiencies = append(plan.Deficiencies, timeline.Deficiency{
				SectionIndex: sec.Index,
				Reason:       deficiency,
			})
		}
		entry.Status = status
		entry.Score = score

		if chosen != nil {
			entry.Asset = chosen
			entry.Motion = c.motion.Generate(*chosen, profiles[i], sec)
		}

		if i > 0 {
			d := c.resolver.Resolve(profiles[i-1], sections[i-1], profiles[i], sec)
			entry.Transition = &d
		}

		c.logger.Debug().
			Int("section", sec.Index).
			Str("status", string(entry.Status)).
			Float64("score", entry.Score).
			Msg("section appended")
		plan.Entries = append(plan.Entries, entry)
	}

	c.logger.Info().
		Int("sections", len(plan.Entries)).
		Int("deficiencies", len(plan.Deficiencies)).
		Msg("timeline plan assembled")
	return plan, nil
}

// DryRun executes profiling and scoring only, returning the ranked
// candidates per section without building a plan.
func (c *Composer) DryRun(ctx context.Context, sections []script.Section, opts *Options) ([]timeline.Ranked, error) {
	o := opts.withDefaults()
	if err := script.Validate(sections); err != nil {
		return nil, err
	}

	profiles := c.profileAll(ctx, sections)
	pools, err := c.prefetch(ctx, sections, profiles, o)
	if err != nil {
		return nil, err
	}

	ranked := make([]timeline.Ranked, 0, len(sections))
	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ranked = append(ranked, timeline.Ranked{
			Section:    sec,
			Candidates: c.scorer.Rank(profiles[i], sec, pools[i], o.Usage),
		})
	}
	return ranked, nil
}

// PreviewTransitions resolves the transition sequence without any asset
// work. Useful for inspecting the narrative arc of a script.
func (c *Composer) PreviewTransitions(ctx context.Context, sections []script.Section) ([]transition.Decision, error) {
	if err := script.Validate(sections); err != nil {
		return nil, err
	}

	profiles := c.profileAll(ctx, sections)
	decisions := make([]transition.Decision, 0, len(sections)-1)
	for i := 1; i < len(sections); i++ {
		decisions = append(decisions, c.resolver.Resolve(profiles[i-1], sections[i-1], profiles[i], sections[i]))
	}
	return decisions, nil
}

func (c *Composer) profileAll(ctx context.Context, sections []script.Section) []profile.Profile {
	profiles := make([]profile.Profile, len(sections))
	for i, sec := range sections {
		profiles[i] = c.profiler.Profile(ctx, sec)
	}
	return profiles
}

// prefetch retrieves candidate pools, optionally in parallel. Results are
// stored by position so later scoring and appending always happen in
// original script order regardless of fetch completion order.
func (c *Composer) prefetch(ctx context.Context, sections []script.Section, profiles []profile.Profile, o Options) ([][]asset.Asset, error) {
	pools := make([][]asset.Asset, len(sections))

	fetch := func(i int) error {
		terms := scorer.DeriveKeywords(sections[i].Narration, sections[i].VisualHint)
		if len(terms) > o.MaxQueryTerms {
			terms = terms[:o.MaxQueryTerms]
		}
		preferred := scorer.PreferredKind(profiles[i].Pace)

		assets, err := c.provider.Search(ctx, terms, preferred)
		if err != nil {
			// an empty pool is "no candidates", not a run failure
			c.logger.Warn().Err(err).Int("section", sections[i].Index).Msg("candidate retrieval failed")
			return nil
		}
		pools[i] = assets
		return nil
	}

	if o.PrefetchWorkers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.PrefetchWorkers)
		for i := range sections {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return fetch(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return pools, nil
	}

	for i := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := fetch(i); err != nil {
			return nil, err
		}
	}
	return pools, nil
}

// resolveOverrides looks every override ID up across the providers with
// an unrestricted search, so an operator can pin any existing asset
// regardless of what the narration keywords would have retrieved.
func (c *Composer) resolveOverrides(ctx context.Context, o Options) (map[string]asset.Asset, error) {
	if len(o.Overrides) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assets, err := c.provider.Search(ctx, nil, asset.KindAny)
	if err != nil {
		// unresolved overrides surface as per-section deficiencies
		c.logger.Warn().Err(err).Msg("override lookup failed")
		return map[string]asset.Asset{}, nil
	}

	byID := make(map[string]asset.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	return byID, nil
}

// chooseAsset applies the selection policy for one section: manual
// override first, then best ranked candidate over the threshold, then the
// configured fallback.
func (c *Composer) chooseAsset(sec script.Section, prof profile.Profile, pool []asset.Asset, overrides map[string]asset.Asset, o Options) (*asset.Asset, float64, timeline.SlotStatus, string) {
	if id, ok := o.Overrides[sec.Index]; ok {
		if a, found := overrides[id]; found {
			return &a, 0, timeline.SlotOverridden, ""
		}
		return nil, 0, timeline.SlotMissing,
			fmt.Sprintf("override asset %q not found in any provider", id)
	}

	ranked := c.scorer.Rank(prof, sec, pool, o.Usage)
	if len(ranked) > 0 && ranked[0].Total >= o.MinScore {
		top := ranked[0]
		return &top.Asset, top.Total, timeline.SlotResolved, ""
	}

	reason := "no candidate assets found"
	if len(ranked) > 0 {
		reason = fmt.Sprintf("top candidate %q scored %.1f, below minimum %.1f",
			ranked[0].Asset.ID, ranked[0].Total, o.MinScore)
	}

	if fallback := c.fallbackAsset(sec, o); fallback != nil {
		return fallback, 0, timeline.SlotFallback, reason + "; placeholder substituted"
	}
	return nil, 0, timeline.SlotMissing, reason
}

func (c *Composer) fallbackAsset(sec script.Section, o Options) *asset.Asset {
	if o.Placeholder != nil {
		p := *o.Placeholder
		return &p
	}
	if sec.Label == script.LabelCallToAction && o.ChannelURL != "" && o.PlaceholderDir != "" {
		card, err := asset.PlaceholderCard(o.PlaceholderDir, o.ChannelURL)
		if err != nil {
			c.logger.Warn().Err(err).Msg("placeholder card generation failed")
			return nil
		}
		return &card
	}
	return nil
}
