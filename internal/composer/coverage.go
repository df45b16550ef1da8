package composer

import "github.com/ivlev/script2video/internal/timeline"

// CoverageStatus classifies how well the material pool covers a section.
type CoverageStatus string

const (
	CoverageFull    CoverageStatus = "full"
	CoveragePartial CoverageStatus = "partial"
	CoverageNone    CoverageStatus = "none"
)

// SectionCoverage is the per-section line of a coverage report.
type SectionCoverage struct {
	SectionIndex int            `json:"section_index" yaml:"section_index"`
	Status       CoverageStatus `json:"status" yaml:"status"`
	Acceptable   int            `json:"acceptable" yaml:"acceptable"`
}

// CoverageReport summarises how much of a script the asset pool can serve.
type CoverageReport struct {
	TotalSections    int               `json:"total_sections" yaml:"total_sections"`
	FullyCovered     int               `json:"fully_covered" yaml:"fully_covered"`
	PartiallyCovered int               `json:"partially_covered" yaml:"partially_covered"`
	NotCovered       int               `json:"not_covered" yaml:"not_covered"`
	CoverageRate     float64           `json:"coverage_rate" yaml:"coverage_rate"`
	Details          []SectionCoverage `json:"details" yaml:"details"`
}

// fullCoverageCount is how many acceptable candidates make a section
// count as fully covered.
const fullCoverageCount = 3

// Coverage turns a dry-run result into a coverage report. A candidate is
// acceptable when it clears minScore.
func Coverage(ranked []timeline.Ranked, minScore float64) CoverageReport {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	report := CoverageReport{TotalSections: len(ranked)}
	for _, r := range ranked {
		acceptable := 0
		for _, cand := range r.Candidates {
			if cand.Total >= minScore {
				acceptable++
			}
		}

		status := CoverageNone
		switch {
		case acceptable >= fullCoverageCount:
			status = CoverageFull
			report.FullyCovered++
		case acceptable > 0:
			status = CoveragePartial
			report.PartiallyCovered++
		default:
			report.NotCovered++
		}

		report.Details = append(report.Details, SectionCoverage{
			SectionIndex: r.Section.Index,
			Status:       status,
			Acceptable:   acceptable,
		})
	}

	if report.TotalSections > 0 {
		report.CoverageRate = float64(report.FullyCovered) / float64(report.TotalSections) * 100
	}
	return report
}
