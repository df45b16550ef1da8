package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/timeline"
	"github.com/ivlev/script2video/internal/transition"
)

var testParams = FrameParams{Width: 1280, Height: 720, FPS: 30}

func TestXfadeName(t *testing.T) {
	cases := map[transition.Effect]string{
		transition.EffectFade:      "fade",
		transition.EffectCrossfade: "dissolve",
		transition.EffectZoomIn:    "zoomin",
		transition.EffectZoomOut:   "circlecrop",
		transition.EffectSlideLeft: "slideleft",
	}
	for effect, want := range cases {
		got, ok := XfadeName(effect)
		if !ok || got != want {
			t.Errorf("%s: expected %s, got %s (ok=%v)", effect, want, got, ok)
		}
	}

	if _, ok := XfadeName(transition.EffectNone); ok {
		t.Error("EffectNone must not map to an xfade transition")
	}
}

func TestZoomPanFilter(t *testing.T) {
	m := &motion.Plan{
		AssetID: "a", StartScale: 1.0, EndScale: 1.3,
		Duration: 4, Kind: "zoom_in_fast",
	}

	f := ZoomPanFilter(m, testParams)

	if !strings.HasPrefix(f, "zoompan=") {
		t.Fatalf("Expected a zoompan filter, got %s", f)
	}
	if !strings.Contains(f, "d=120") {
		t.Errorf("4s at 30fps should run 120 frames: %s", f)
	}
	if !strings.Contains(f, "s=1280x720") {
		t.Errorf("Missing output size: %s", f)
	}
	if !strings.Contains(f, "on/120") {
		t.Errorf("Zoom should interpolate over the frames: %s", f)
	}
}

func TestZoomPanFilterStaticScale(t *testing.T) {
	m := &motion.Plan{
		AssetID: "a", StartScale: 1.0, EndScale: 1.0,
		EndOffset: motion.Offset{X: -0.08},
		Duration:  5, Kind: "pan_horizontal",
	}

	f := ZoomPanFilter(m, testParams)
	if strings.Contains(f, "z='1.000000+") {
		t.Errorf("Constant scale should not interpolate: %s", f)
	}
	if !strings.Contains(f, "iw") {
		t.Errorf("Horizontal pan should reference the input width: %s", f)
	}
}

func TestSegmentFilterWithoutMotion(t *testing.T) {
	e := timeline.Entry{
		Section: script.Section{Index: 1, TargetDuration: 5},
	}

	f := SegmentFilter(e, testParams)
	if strings.Contains(f, "zoompan") {
		t.Errorf("Entry without motion must not get zoompan: %s", f)
	}
	if !strings.Contains(f, "scale=2560:1440") {
		t.Errorf("Expected the 2x aspect normalisation: %s", f)
	}
	if !strings.HasSuffix(f, "scale=1280:720") {
		t.Errorf("Chain should end at the output size: %s", f)
	}
}

func planOf(durations []float64, effects []transition.Effect) *timeline.Plan {
	p := &timeline.Plan{Version: timeline.Version}
	for i, d := range durations {
		e := timeline.Entry{
			Section: script.Section{Index: i + 1, TargetDuration: d},
			Status:  timeline.SlotResolved,
		}
		if i > 0 {
			eff := effects[i-1]
			dur := transition.DefaultDurations()[eff]
			e.Transition = &transition.Decision{
				FromIndex: i, ToIndex: i + 1, Effect: eff, Duration: dur,
			}
		}
		p.Entries = append(p.Entries, e)
	}
	return p
}

func TestFilterGraph(t *testing.T) {
	plan := planOf(
		[]float64{4, 8, 6},
		[]transition.Effect{transition.EffectFade, transition.EffectZoomIn},
	)

	graph := FilterGraph(plan, testParams)
	t.Logf("graph:\n%s", graph)

	for i := range plan.Entries {
		if !strings.Contains(graph, fmt.Sprintf("[s%d]", i)) {
			t.Errorf("Missing segment label s%d", i)
		}
	}
	if !strings.Contains(graph, "xfade=transition=fade:duration=1.00:offset=3.00") {
		t.Errorf("First xfade should start at 4s minus the 1s overlap:\n%s", graph)
	}
	if !strings.Contains(graph, "xfade=transition=zoomin") {
		t.Errorf("Second transition missing:\n%s", graph)
	}
	if !strings.Contains(graph, "[vout]") {
		t.Errorf("Final chain must be labelled vout:\n%s", graph)
	}
}

func TestFilterGraphHardCut(t *testing.T) {
	plan := planOf([]float64{4, 6}, []transition.Effect{transition.EffectNone})

	graph := FilterGraph(plan, testParams)
	if !strings.Contains(graph, "concat=n=2") {
		t.Errorf("EffectNone should concat instead of xfade:\n%s", graph)
	}
	if strings.Contains(graph, "xfade") {
		t.Errorf("Hard cut must not produce an xfade:\n%s", graph)
	}
}

func TestFilterGraphSingleEntry(t *testing.T) {
	plan := planOf([]float64{5}, nil)
	graph := FilterGraph(plan, testParams)

	if strings.Contains(graph, "xfade") || strings.Contains(graph, "concat") {
		t.Errorf("Single-entry plan needs no join:\n%s", graph)
	}
	if !strings.Contains(graph, "[s0]") {
		t.Errorf("Segment chain missing:\n%s", graph)
	}
}
