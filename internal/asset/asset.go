package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes still images from motion clips.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"

	// KindAny is only valid in search queries, never on an Asset.
	KindAny Kind = ""
)

// Asset is a candidate visual owned by an external material store. The
// decision core treats it as a read-only value object.
type Asset struct {
	ID         string   `yaml:"id" json:"id"`
	Kind       Kind     `yaml:"kind" json:"kind"`
	Path       string   `yaml:"path,omitempty" json:"path,omitempty"`
	URL        string   `yaml:"url,omitempty" json:"url,omitempty"`
	Tags       []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Rating     int      `yaml:"rating,omitempty" json:"rating,omitempty"` // 0 = unrated, otherwise 1..5
	UsageCount int      `yaml:"usage_count,omitempty" json:"usage_count,omitempty"`
	Width      int      `yaml:"width,omitempty" json:"width,omitempty"`
	Height     int      `yaml:"height,omitempty" json:"height,omitempty"`
}

// Provider supplies candidate assets for a set of query terms. An empty
// result is a valid answer, not an error; providers report errors only for
// their own failures (I/O, network) and callers decide how to degrade.
type Provider interface {
	Name() string
	Search(ctx context.Context, terms []string, preferred Kind) ([]Asset, error)
}

// Pool fans a search out to several providers and merges the results,
// deduplicating by asset ID. Provider failures are collected but do not
// fail the search as long as at least one provider answered.
type Pool struct {
	providers []Provider
}

// NewPool builds a pool over the given providers.
func NewPool(providers ...Provider) (*Pool, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("asset pool requires at least one provider")
	}
	return &Pool{providers: providers}, nil
}

// Search queries every provider in order and merges unique results.
func (p *Pool) Search(ctx context.Context, terms []string, preferred Kind) ([]Asset, error) {
	seen := make(map[string]struct{})
	var merged []Asset
	var errs []string

	for _, prov := range p.providers {
		assets, err := prov.Search(ctx, terms, preferred)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prov.Name(), err))
			continue
		}
		for _, a := range assets {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			merged = append(merged, a)
		}
	}

	if len(merged) == 0 && len(errs) == len(p.providers) && len(errs) > 0 {
		return nil, fmt.Errorf("all providers failed: %s", strings.Join(errs, "; "))
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged, nil
}

// Name implements Provider so a Pool can itself back another Pool.
func (p *Pool) Name() string { return "pool" }

// MatchesKind reports whether the asset satisfies a preferred kind.
func MatchesKind(a Asset, preferred Kind) bool {
	return preferred == KindAny || a.Kind == preferred
}
