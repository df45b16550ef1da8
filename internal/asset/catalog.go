package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"
)

// libraryFile is the sidecar metadata index kept next to the material
// files. Entries are keyed by path relative to the catalog root.
const libraryFile = "library.yaml"

type libraryEntry struct {
	Tags       []string `yaml:"tags,omitempty"`
	Rating     int      `yaml:"rating,omitempty"`
	UsageCount int      `yaml:"usage_count,omitempty"`
}

var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".webm": {}, ".mkv": {},
}

// Catalog is a local material library. Scan walks the root directory once;
// after that searches run over the in-memory index only.
type Catalog struct {
	root   string
	assets []Asset
	logger zerolog.Logger
}

// NewCatalog creates a catalog rooted at dir and scans it immediately.
func NewCatalog(dir string, logger zerolog.Logger) (*Catalog, error) {
	c := &Catalog{
		root:   dir,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
	if err := c.scan(); err != nil {
		return nil, err
	}
	return c, nil
}

// Name implements Provider.
func (c *Catalog) Name() string { return "catalog" }

// Len reports the number of indexed assets.
func (c *Catalog) Len() int { return len(c.assets) }

// All returns a copy of the full index, sorted by ID.
func (c *Catalog) All() []Asset {
	out := make([]Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

func (c *Catalog) scan() error {
	meta, err := c.loadLibrary()
	if err != nil {
		return err
	}

	err = filepath.WalkDir(c.root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))

		switch {
		case ext == ".pdf":
			pages, err := scanPDF(path, rel, meta[rel])
			if err != nil {
				c.logger.Warn().Err(err).Str("file", rel).Msg("skipping unreadable pdf")
				return nil
			}
			c.assets = append(c.assets, pages...)
		default:
			a, ok := c.scanFile(path, rel, ext, meta[rel])
			if ok {
				c.assets = append(c.assets, a)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan catalog %s: %w", c.root, err)
	}

	sort.Slice(c.assets, func(i, j int) bool { return c.assets[i].ID < c.assets[j].ID })
	c.logger.Info().Int("assets", len(c.assets)).Str("root", c.root).Msg("catalog scanned")
	return nil
}

func (c *Catalog) scanFile(path, rel, ext string, meta libraryEntry) (Asset, bool) {
	var kind Kind
	switch {
	case hasExt(imageExts, ext):
		kind = KindImage
	case hasExt(videoExts, ext):
		kind = KindVideo
	default:
		return Asset{}, false
	}

	a := Asset{
		ID:         rel,
		Kind:       kind,
		Path:       path,
		Tags:       mergeTags(meta.Tags, nameTags(rel)),
		Rating:     meta.Rating,
		UsageCount: meta.UsageCount,
	}

	if kind == KindImage {
		w, h, err := probeImage(path)
		if err != nil {
			c.logger.Warn().Err(err).Str("file", rel).Msg("skipping undecodable image")
			return Asset{}, false
		}
		a.Width, a.Height = w, h
	}
	return a, true
}

// Search matches the query terms against tags and file names with
// case-insensitive substring matching, the same way the material manager
// treats keyword search. The preferred kind is a ranking hint for the
// scorer, not a filter: stills stay eligible for fast sections.
func (c *Catalog) Search(ctx context.Context, terms []string, preferred Kind) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Asset
	for _, a := range c.assets {
		if matchesTerms(a, terms) {
			out = append(out, a)
		}
	}
	return out, nil
}

func matchesTerms(a Asset, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(a.ID + " " + strings.Join(a.Tags, " "))
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

func (c *Catalog) loadLibrary() (map[string]libraryEntry, error) {
	data, err := os.ReadFile(filepath.Join(c.root, libraryFile))
	if os.IsNotExist(err) {
		return map[string]libraryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library index: %w", err)
	}

	meta := make(map[string]libraryEntry)
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse library index: %w", err)
	}
	return meta, nil
}

func probeImage(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func hasExt(set map[string]struct{}, ext string) bool {
	_, ok := set[ext]
	return ok
}

// nameTags derives tags from the file name: "solar_system-overview.jpg"
// yields solar, system, overview.
func nameTags(rel string) []string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	fields := strings.FieldsFunc(strings.ToLower(base), func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var tags []string
	for _, f := range fields {
		if len(f) >= 3 {
			tags = append(tags, f)
		}
	}
	return tags
}

func mergeTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, t := range append(append([]string{}, a...), b...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
