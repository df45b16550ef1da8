package renderer

import (
	"fmt"
	"strings"

	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/timeline"
	"github.com/ivlev/script2video/internal/transition"
)

// FrameParams describe the output frame the filters are built for.
type FrameParams struct {
	Width  int
	Height int
	FPS    int
}

// xfadeNames maps timeline transition effects onto ffmpeg xfade
// transition names. EffectNone produces a hard cut (no xfade at all).
var xfadeNames = map[transition.Effect]string{
	transition.EffectFade:       "fade",
	transition.EffectCrossfade:  "dissolve",
	transition.EffectZoomIn:     "zoomin",
	transition.EffectZoomOut:    "circlecrop",
	transition.EffectSlideLeft:  "slideleft",
	transition.EffectSlideRight: "slideright",
}

// XfadeName returns the ffmpeg xfade transition for an effect and whether
// a transition filter applies at all.
func XfadeName(e transition.Effect) (string, bool) {
	name, ok := xfadeNames[e]
	return name, ok
}

// SegmentFilter builds the per-slot ffmpeg filter chain for one timeline
// entry: aspect normalisation, then the zoompan curve for stills. The
// input is scaled 2x before zoompan for subpixel-smooth motion, matching
// how still-image zoom is usually rendered.
func SegmentFilter(e timeline.Entry, p FrameParams) string {
	aspect := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		p.Width*2, p.Height*2, p.Width*2, p.Height*2,
	)

	if e.Motion == nil {
		return fmt.Sprintf("%s,scale=%d:%d", aspect, p.Width, p.Height)
	}

	zoom := ZoomPanFilter(e.Motion, p)
	return fmt.Sprintf("%s,%s,scale=%d:%d", aspect, zoom, p.Width, p.Height)
}

// ZoomPanFilter translates a motion plan into an ffmpeg zoompan filter.
// Scale and offsets interpolate linearly over the plan duration.
func ZoomPanFilter(m *motion.Plan, p FrameParams) string {
	frames := int(m.Duration * float64(p.FPS))
	if frames < 1 {
		frames = 1
	}

	zExpr := lerpExpr(m.StartScale, m.EndScale, frames)

	// zoompan x/y position the visible window; offsets are fractions of
	// the input size shifting the window against the pan direction.
	xExpr := panExpr("iw", m.StartOffset.X, m.EndOffset.X, frames)
	yExpr := panExpr("ih", m.StartOffset.Y, m.EndOffset.Y, frames)

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		zExpr, xExpr, yExpr, frames, p.Width, p.Height, p.FPS)
}

func lerpExpr(start, end float64, frames int) string {
	if start == end || frames <= 1 {
		return fmt.Sprintf("%.6f", start)
	}
	return fmt.Sprintf("%.6f+(%.6f-%.6f)*on/%d", start, end, start, frames)
}

func panExpr(dim string, start, end float64, frames int) string {
	center := fmt.Sprintf("%s/2-(%s/zoom/2)", dim, dim)
	if start == 0 && end == 0 {
		return center
	}
	if frames <= 1 || start == end {
		return fmt.Sprintf("%s+%s*%.6f", center, dim, start)
	}
	return fmt.Sprintf("%s+%s*(%.6f+(%.6f-%.6f)*on/%d)", center, dim, start, end, start, frames)
}

// FilterGraph renders the whole plan into a textual ffmpeg filter_complex
// description: one labelled segment chain per entry plus the xfade chain
// joining them. The caller owns actually invoking ffmpeg.
func FilterGraph(plan *timeline.Plan, p FrameParams) string {
	var b strings.Builder

	for i, e := range plan.Entries {
		fmt.Fprintf(&b, "[%d:v]%s[s%d];\n", i, SegmentFilter(e, p), i)
	}

	if len(plan.Entries) < 2 {
		return b.String()
	}

	prev := "s0"
	elapsed := plan.Entries[0].Section.TargetDuration
	for i := 1; i < len(plan.Entries); i++ {
		e := plan.Entries[i]
		out := fmt.Sprintf("x%d", i)
		if i == len(plan.Entries)-1 {
			out = "vout"
		}

		dur := 0.0
		name := ""
		if e.Transition != nil {
			if n, ok := XfadeName(e.Transition.Effect); ok {
				name, dur = n, e.Transition.Duration
			}
		}

		if name == "" {
			// hard cut: plain concat of the two chains
			fmt.Fprintf(&b, "[%s][s%d]concat=n=2:v=1:a=0[%s];\n", prev, i, out)
		} else {
			offset := elapsed - dur
			if offset < 0 {
				offset = 0
			}
			fmt.Fprintf(&b, "[%s][s%d]xfade=transition=%s:duration=%.2f:offset=%.2f[%s];\n",
				prev, i, name, dur, offset, out)
			elapsed -= dur
		}

		elapsed += e.Section.TargetDuration
		prev = out
	}

	return b.String()
}
