package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every structural validation failure so callers can
// distinguish a bad script from an operational error.
var ErrInvalid = errors.New("invalid script")

// Label is a section-type tag from the closed narrative vocabulary.
type Label string

const (
	LabelHook         Label = "hook"
	LabelIntroduction Label = "introduction"
	LabelBackground   Label = "background"
	LabelMainContent  Label = "main_content"
	LabelApplication  Label = "application"
	LabelSummary      Label = "summary"
	LabelCallToAction Label = "call_to_action"
	LabelCustom       Label = "custom"
)

// Labels lists every known label in narrative order.
func Labels() []Label {
	return []Label{
		LabelHook,
		LabelIntroduction,
		LabelBackground,
		LabelMainContent,
		LabelApplication,
		LabelSummary,
		LabelCallToAction,
		LabelCustom,
	}
}

// ParseLabel maps a free-form tag onto the closed vocabulary. Aliases from
// older script files ("cta", "intro", "main") are accepted; anything else
// becomes LabelCustom.
func ParseLabel(s string) Label {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hook", "opening":
		return LabelHook
	case "introduction", "intro":
		return LabelIntroduction
	case "background", "basics":
		return LabelBackground
	case "main_content", "main", "content":
		return LabelMainContent
	case "application", "practice":
		return LabelApplication
	case "summary", "conclusion", "recap":
		return LabelSummary
	case "call_to_action", "cta":
		return LabelCallToAction
	default:
		return LabelCustom
	}
}

// Section is one narrated beat of a script. Sections are constructed once
// when a script is loaded and never mutated afterwards.
type Section struct {
	Index          int     `yaml:"index" json:"index"`
	Label          Label   `yaml:"label" json:"label"`
	Title          string  `yaml:"title" json:"title"`
	Narration      string  `yaml:"narration" json:"narration"`
	VisualHint     string  `yaml:"visual_hint,omitempty" json:"visual_hint,omitempty"`
	TargetDuration float64 `yaml:"target_duration" json:"target_duration"`
	Static         bool    `yaml:"static,omitempty" json:"static,omitempty"`
}

// Script is an ordered list of sections plus document metadata.
type Script struct {
	Version  string    `yaml:"version"`
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Load reads a script from a YAML file and validates it.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	for i := range s.Sections {
		s.Sections[i].Label = ParseLabel(string(s.Sections[i].Label))
	}

	if err := Validate(s.Sections); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the structural preconditions that are fatal to a
// composition run: at least one section, positive durations, and index
// values forming a strictly increasing unique ordering.
func Validate(sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("%w: script contains no sections", ErrInvalid)
	}

	seen := make(map[int]struct{}, len(sections))
	prev := -1
	for _, sec := range sections {
		if _, dup := seen[sec.Index]; dup {
			return fmt.Errorf("%w: section index %d appears more than once", ErrInvalid, sec.Index)
		}
		seen[sec.Index] = struct{}{}
		if sec.Index <= prev {
			return fmt.Errorf("%w: section indexes are not strictly increasing at index %d", ErrInvalid, sec.Index)
		}
		prev = sec.Index
		if sec.TargetDuration <= 0 {
			return fmt.Errorf("%w: section %d has non-positive target duration %.2f", ErrInvalid, sec.Index, sec.TargetDuration)
		}
	}
	return nil
}
