package motion

import (
	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/script"
)

// Offset is a pan displacement as a fraction of the frame size.
// Negative X moves the image left, negative Y moves it up.
type Offset struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Plan is a parametrized pan/zoom curve for one still image within one
// section. Scale and offset are interpolated linearly from start to end
// over Duration seconds.
type Plan struct {
	AssetID     string  `yaml:"asset_id" json:"asset_id"`
	StartScale  float64 `yaml:"start_scale" json:"start_scale"`
	EndScale    float64 `yaml:"end_scale" json:"end_scale"`
	StartOffset Offset  `yaml:"start_offset" json:"start_offset"`
	EndOffset   Offset  `yaml:"end_offset" json:"end_offset"`
	Duration    float64 `yaml:"duration" json:"duration"`
	Kind        string  `yaml:"kind" json:"kind"`
}

// Band maps a half-open energy interval [Min, Max) onto a movement. Bands
// are contiguous and cover [0,10].
type Band struct {
	Min        float64
	Max        float64
	Kind       string
	StartScale float64
	EndScale   float64
	EndOffset  Offset
}

// DefaultBands returns the standard energy-banded movement policy. Low
// energy must never look busier than its content warrants, so the bottom
// band is a gentle settle rather than a push-in.
func DefaultBands() []Band {
	return []Band{
		{Min: 8.5, Max: 10.01, Kind: "zoom_in_fast", StartScale: 1.0, EndScale: 1.3},
		{Min: 7.5, Max: 8.5, Kind: "diagonal_zoom", StartScale: 1.0, EndScale: 1.2, EndOffset: Offset{X: -0.05, Y: -0.05}},
		{Min: 6.0, Max: 7.5, Kind: "zoom_in_slow", StartScale: 1.0, EndScale: 1.15},
		{Min: 4.5, Max: 6.0, Kind: "pan_horizontal", StartScale: 1.0, EndScale: 1.0, EndOffset: Offset{X: -0.08}},
		{Min: 0, Max: 4.5, Kind: "zoom_out_gentle", StartScale: 1.1, EndScale: 1.0},
	}
}

// Generator produces motion plans from energy bands. Bands are injected
// at construction so tests can swap in alternate policies.
type Generator struct {
	bands []Band
}

// NewGenerator creates a Generator; nil bands fall back to the defaults.
func NewGenerator(bands []Band) *Generator {
	if bands == nil {
		bands = DefaultBands()
	}
	return &Generator{bands: bands}
}

// Generate returns the pan/zoom plan for a still image, or nil for video
// assets (motion is intrinsic) and sections flagged static. The banded
// lookup is total over [0,10], so there are no error paths.
func (g *Generator) Generate(a asset.Asset, prof profile.Profile, sec script.Section) *Plan {
	if a.Kind == asset.KindVideo || sec.Static {
		return nil
	}

	band := g.bandFor(prof.Energy)
	return &Plan{
		AssetID:    a.ID,
		StartScale: band.StartScale,
		EndScale:   band.EndScale,
		EndOffset:  band.EndOffset,
		Duration:   sec.TargetDuration,
		Kind:       band.Kind,
	}
}

func (g *Generator) bandFor(energy float64) Band {
	for _, b := range g.bands {
		if energy >= b.Min && energy < b.Max {
			return b
		}
	}
	// bands cover [0,10]; out-of-range energies settle on the last band
	return g.bands[len(g.bands)-1]
}
