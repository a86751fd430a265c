// Package report implements the dashboard aggregation and recommendation
// engine: grouping answers by questionnaire section, computing per-section
// averages, and deriving remediation recommendations. Everything here is a
// pure function of its input; persistence and transport live elsewhere.
package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/raulvilera/projetoarp/internal/models"
)

// SectionStat accumulates the raw sum and count for one section bucket.
type SectionStat struct {
	Sum   int
	Count int
}

// SectionAverage is the aggregate score for one section. SectionID is a
// string: well-formed question ids yield "1".."9", but malformed ids are
// kept under their literal prefix rather than dropped.
type SectionAverage struct {
	SectionID string  `json:"id"`
	Average   float64 `json:"average"`
}

// ComputeSectionAverages reduces the full response set to one average per
// section. The section is derived from each answer key by taking the
// segment before the first "."; keys without a separator bucket under the
// whole key. Sections with no answers are omitted; backfilling zeroes for
// the fixed section list is a presentation concern (see Backfill).
//
// Averages are rounded to 2 decimal places, half away from zero.
func ComputeSectionAverages(responses []models.SurveyResponse) []SectionAverage {
	stats := make(map[string]*SectionStat)

	for _, r := range responses {
		for questionID, value := range r.Answers {
			sectionID, _, _ := strings.Cut(questionID, ".")
			bucket, ok := stats[sectionID]
			if !ok {
				bucket = &SectionStat{}
				stats[sectionID] = bucket
			}
			bucket.Sum += value
			bucket.Count++
		}
	}

	result := make([]SectionAverage, 0, len(stats))
	for id, stat := range stats {
		result = append(result, SectionAverage{
			SectionID: id,
			Average:   round2(float64(stat.Sum) / float64(stat.Count)),
		})
	}

	// Map iteration order is random; sort so repeated runs over the same
	// input produce identical output. Numeric section ids come first in
	// ascending order, ad-hoc buckets follow lexicographically.
	sort.Slice(result, func(i, j int) bool {
		a, aErr := strconv.Atoi(result[i].SectionID)
		b, bErr := strconv.Atoi(result[j].SectionID)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return result[i].SectionID < result[j].SectionID
		}
	})

	return result
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SectionReport is one row of the backfilled dashboard report.
type SectionReport struct {
	SectionID      int             `json:"id"`
	Title          string          `json:"title"`
	Average        float64         `json:"average"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// Backfill merges raw averages over the canonical section catalog so the
// dashboard always shows every section, with a zero average where no data
// exists. Ad-hoc buckets from malformed keys are not part of the catalog
// and do not appear here.
func Backfill(q *models.Questionnaire, averages []SectionAverage) []SectionReport {
	byID := make(map[string]float64, len(averages))
	for _, avg := range averages {
		byID[avg.SectionID] = avg.Average
	}

	reports := make([]SectionReport, 0, len(q.Sections))
	for _, section := range q.Sections {
		avg := byID[strconv.Itoa(section.ID)]
		reports = append(reports, SectionReport{
			SectionID:      section.ID,
			Title:          section.Title,
			Average:        avg,
			Recommendation: RecommendFor(q, section.Title, avg),
		})
	}
	return reports
}
