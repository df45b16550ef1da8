package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/scorer"
	"github.com/ivlev/script2video/internal/script"
	"github.com/ivlev/script2video/internal/transition"
)

// SlotStatus distinguishes how a timeline slot got its visual.
type SlotStatus string

const (
	// SlotResolved means a candidate cleared the score threshold.
	SlotResolved SlotStatus = "resolved"
	// SlotOverridden means a manual override supplied the asset.
	SlotOverridden SlotStatus = "overridden"
	// SlotFallback means a placeholder was substituted.
	SlotFallback SlotStatus = "fallback"
	// SlotMissing means no usable visual exists for the section.
	SlotMissing SlotStatus = "missing"
)

// Entry is one fully decided slot of the timeline: the section, its chosen
// asset, the motion curve for stills, and the transition leading into it.
type Entry struct {
	Section    script.Section       `yaml:"section" json:"section"`
	Asset      *asset.Asset         `yaml:"asset,omitempty" json:"asset,omitempty"`
	Score      float64              `yaml:"score,omitempty" json:"score,omitempty"`
	Status     SlotStatus           `yaml:"status" json:"status"`
	Motion     *motion.Plan         `yaml:"motion,omitempty" json:"motion,omitempty"`
	Transition *transition.Decision `yaml:"transition,omitempty" json:"transition,omitempty"`
}

// Deficiency is a structured per-section warning accumulated during a run.
type Deficiency struct {
	SectionIndex int    `yaml:"section_index" json:"section_index"`
	Reason       string `yaml:"reason" json:"reason"`
}

// Plan is the ordered, fully resolved sequence handed to the rendering
// collaborator. Built once per composition run, immutable once returned.
type Plan struct {
	Version      string       `yaml:"version" json:"version"`
	Title        string       `yaml:"title,omitempty" json:"title,omitempty"`
	Entries      []Entry      `yaml:"entries" json:"entries"`
	Deficiencies []Deficiency `yaml:"deficiencies,omitempty" json:"deficiencies,omitempty"`
}

// Version of the plan file format.
const Version = "1.0"

// Duration sums the section target durations.
func (p *Plan) Duration() float64 {
	total := 0.0
	for _, e := range p.Entries {
		total += e.Section.TargetDuration
	}
	return total
}

// Ranked captures a dry-run result: the scored candidate list per section
// without any timeline assembly.
type Ranked struct {
	Section    script.Section     `yaml:"section" json:"section"`
	Candidates []scorer.Candidate `yaml:"candidates" json:"candidates"`
}

// Write serialises a plan to a YAML file.
func Write(p *Plan, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a plan from a YAML file.
func Read(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &p, nil
}
