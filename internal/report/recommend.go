package report

import "github.com/raulvilera/projetoarp/internal/models"

// Recommendation thresholds. Below RecommendThreshold the risk is
// considered acceptably low and no recommendation is surfaced; above
// CriticalThreshold the severity escalates from moderate to critical.
const (
	RecommendThreshold = 1.5
	CriticalThreshold  = 3.0
)

// Severity labels surfaced on the dashboard.
const (
	SeverityModerate = "Moderado"
	SeverityCritical = "Crítico"
)

// Recommendation is the remediation guidance for one section whose average
// crossed the threshold.
type Recommendation struct {
	SectionTitle string   `json:"title"`
	Severity     string   `json:"severity"`
	ActionItems  []string `json:"actions"`
}

// RecommendFor decides whether a section's average warrants a
// recommendation and, if so, selects the guidance text from the catalog.
// Returns nil when the average is below RecommendThreshold. Titles not
// present in the catalog fall back to the generic action list.
func RecommendFor(q *models.Questionnaire, sectionTitle string, average float64) *Recommendation {
	if average < RecommendThreshold {
		return nil
	}

	severity := SeverityModerate
	if average > CriticalThreshold {
		severity = SeverityCritical
	}

	actions := q.FallbackActions
	if section, ok := q.SectionByTitle(sectionTitle); ok {
		actions = section.Actions
	}

	return &Recommendation{
		SectionTitle: sectionTitle,
		Severity:     severity,
		ActionItems:  actions,
	}
}
