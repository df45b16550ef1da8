package renderer

import "github.com/ivlev/script2video/internal/motion"

// CameraState is the sampled pan/zoom position at one moment of a motion
// plan. Offsets are fractions of the input frame, matching motion.Offset.
type CameraState struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// CameraAt samples a motion plan at time t seconds. Interpolation is
// linear, the same curve ZoomPanFilter emits, so a sampled preview frame
// matches the rendered output. Times outside [0, Duration] clamp to the
// endpoints; a nil plan is a fixed full-frame camera.
func CameraAt(m *motion.Plan, t float64) CameraState {
	if m == nil {
		return CameraState{Zoom: 1.0}
	}

	switch {
	case t <= 0 || m.Duration <= 0:
		return CameraState{OffsetX: m.StartOffset.X, OffsetY: m.StartOffset.Y, Zoom: m.StartScale}
	case t >= m.Duration:
		return CameraState{OffsetX: m.EndOffset.X, OffsetY: m.EndOffset.Y, Zoom: m.EndScale}
	}

	f := t / m.Duration
	return CameraState{
		OffsetX: lerp(m.StartOffset.X, m.EndOffset.X, f),
		OffsetY: lerp(m.StartOffset.Y, m.EndOffset.Y, f),
		Zoom:    lerp(m.StartScale, m.EndScale, f),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
