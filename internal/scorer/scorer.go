package scorer

import (
	"sort"
	"strings"

	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/script"
)

// Factor names used in score breakdowns. Kept as constants so tests and
// downstream tooling address them uniformly.
const (
	FactorTypeMatch    = "typeMatch"
	FactorTagOverlap   = "tagOverlap"
	FactorKeywordMatch = "keywordMatch"
	FactorRatingBonus  = "ratingBonus"
	FactorUsageBonus   = "usageBonus"
)

// Weights holds the per-factor caps. Each factor is capped independently
// before summing; the total is clamped to TotalCap.
type Weights struct {
	TypeMatch    float64 `yaml:"type_match"`
	TagOverlap   float64 `yaml:"tag_overlap"`
	KeywordMatch float64 `yaml:"keyword_match"`
	RatingBonus  float64 `yaml:"rating_bonus"`
	UsageBonus   float64 `yaml:"usage_bonus"`
	TotalCap     float64 `yaml:"total_cap"`
}

// DefaultWeights returns the standard factor caps.
func DefaultWeights() Weights {
	return Weights{
		TypeMatch:    30,
		TagOverlap:   30,
		KeywordMatch: 30,
		RatingBonus:  10,
		UsageBonus:   10,
		TotalCap:     100,
	}
}

// UsageContext carries run-external usage history per asset ID, merged
// with the asset's own usage count. Previously validated assets earn a
// bonus; repetition is deliberately not penalised.
type UsageContext map[string]int

// Candidate pairs an asset with its total score and factor breakdown.
// Created fresh per scoring call, never mutated.
type Candidate struct {
	Asset     asset.Asset        `yaml:"asset" json:"asset"`
	Total     float64            `yaml:"total" json:"total"`
	Breakdown map[string]float64 `yaml:"breakdown" json:"breakdown"`
}

// Scorer computes match scores for candidate assets against a section's
// semantic profile. It holds no mutable state across calls.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with the given factor caps.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// PreferredKind derives the wanted asset kind from the section pace:
// fast and medium sections prefer motion, slow sections accept either.
func PreferredKind(p profile.Pace) asset.Kind {
	if p == profile.PaceFast || p == profile.PaceMedium {
		return asset.KindVideo
	}
	return asset.KindAny
}

// Score evaluates one asset against one profiled section. Malformed or
// missing asset fields contribute zero to their factor, never an error.
func (s *Scorer) Score(prof profile.Profile, sec script.Section, a asset.Asset, usage UsageContext) Candidate {
	breakdown := make(map[string]float64, 5)

	// typeMatch: full weight when the asset kind suits the section pace.
	preferred := PreferredKind(prof.Pace)
	if asset.MatchesKind(a, preferred) {
		breakdown[FactorTypeMatch] = s.weights.TypeMatch
	} else {
		breakdown[FactorTypeMatch] = 0
	}

	// tagOverlap: asset tags intersecting keywords derived from the
	// narration and visual hint.
	keywords := DeriveKeywords(sec.Narration, sec.VisualHint)
	overlap := 0
	for _, tag := range a.Tags {
		if keywordSetMatches(keywords, tag) {
			overlap++
		}
	}
	breakdown[FactorTagOverlap] = capped(float64(overlap)*10, s.weights.TagOverlap)

	// keywordMatch: asset tags occurring verbatim inside the raw
	// narration string, rewarding exact vocabulary reuse.
	narration := strings.ToLower(sec.Narration)
	direct := 0
	for _, tag := range a.Tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t != "" && strings.Contains(narration, t) {
			direct++
		}
	}
	breakdown[FactorKeywordMatch] = capped(float64(direct)*10, s.weights.KeywordMatch)

	// ratingBonus: rating*2 when present.
	if a.Rating > 0 {
		breakdown[FactorRatingBonus] = capped(float64(a.Rating)*2, s.weights.RatingBonus)
	} else {
		breakdown[FactorRatingBonus] = 0
	}

	// usageBonus: grows with validated prior usage up to the cap.
	uses := a.UsageCount
	if usage != nil {
		uses += usage[a.ID]
	}
	if uses < 0 {
		uses = 0
	}
	breakdown[FactorUsageBonus] = capped(float64(uses), s.weights.UsageBonus)

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	if total > s.weights.TotalCap {
		total = s.weights.TotalCap
	}

	return Candidate{Asset: a, Total: total, Breakdown: breakdown}
}

// Rank scores every asset and sorts by total descending with asset ID
// ascending as the deterministic tie-break.
func (s *Scorer) Rank(prof profile.Profile, sec script.Section, assets []asset.Asset, usage UsageContext) []Candidate {
	candidates := make([]Candidate, 0, len(assets))
	for _, a := range assets {
		candidates = append(candidates, s.Score(prof, sec, a, usage))
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Total != candidates[j].Total {
			return candidates[i].Total > candidates[j].Total
		}
		return candidates[i].Asset.ID < candidates[j].Asset.ID
	})
	return candidates
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "you": {}, "your": {}, "our": {}, "its": {},
	"have": {}, "has": {}, "will": {}, "can": {}, "about": {}, "into": {},
	"from": {}, "what": {}, "how": {}, "why": {}, "not": {}, "all": {},
}

// DeriveKeywords tokenises narration plus visual hint into a distinct
// lowercase keyword set, dropping stop words and short tokens.
func DeriveKeywords(narration, visualHint string) []string {
	fields := strings.FieldsFunc(strings.ToLower(narration+" "+visualHint), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	seen := make(map[string]struct{}, len(fields))
	var keywords []string
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		keywords = append(keywords, f)
	}
	return keywords
}

func keywordSetMatches(keywords []string, tag string) bool {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(kw, t) || strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
