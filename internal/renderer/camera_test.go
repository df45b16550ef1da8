package renderer

import (
	"testing"

	"github.com/ivlev/script2video/internal/motion"
)

func TestCameraAt(t *testing.T) {
	m := &motion.Plan{
		AssetID:    "a",
		StartScale: 1.0, EndScale: 1.3,
		EndOffset: motion.Offset{X: -0.05, Y: -0.05},
		Duration:  4, Kind: "diagonal_zoom",
	}

	tests := []struct {
		time float64
		zoom float64
		offX float64
	}{
		{-1.0, 1.0, 0},       // before the start clamps
		{0.0, 1.0, 0},        // start state
		{2.0, 1.15, -0.025},  // midpoint interpolates linearly
		{4.0, 1.3, -0.05},    // end state
		{9.0, 1.3, -0.05},    // past the end clamps
	}

	for _, tt := range tests {
		state := CameraAt(m, tt.time)
		if abs(state.Zoom-tt.zoom) > 1e-9 {
			t.Errorf("At %.1fs: expected zoom %.3f, got %.3f", tt.time, tt.zoom, state.Zoom)
		}
		if abs(state.OffsetX-tt.offX) > 1e-9 {
			t.Errorf("At %.1fs: expected offset x %.3f, got %.3f", tt.time, tt.offX, state.OffsetX)
		}
	}
}

func TestCameraAtNilPlan(t *testing.T) {
	state := CameraAt(nil, 2.0)
	if state.Zoom != 1.0 || state.OffsetX != 0 || state.OffsetY != 0 {
		t.Errorf("Nil plan should be a fixed full-frame camera, got %+v", state)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
