package models

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Question is a single Likert item. IDs follow the "<section>.<question>"
// convention, e.g. "3.7".
type Question struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Section is one of the nine thematic risk groups of the questionnaire.
type Section struct {
	ID          int        `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Icon        string     `yaml:"icon" json:"icon"`
	Questions   []Question `yaml:"questions" json:"questions"`
	// Actions are the remediation suggestions surfaced when the section's
	// average crosses the recommendation threshold.
	Actions []string `yaml:"actions" json:"-"`
}

// LikertOption is one point of the 0-4 frequency scale.
type LikertOption struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Questionnaire holds the full static section catalog. It is loaded once at
// startup and never mutated.
type Questionnaire struct {
	LikertScale []LikertOption `yaml:"likert_scale" json:"likertScale"`
	Sections    []Section      `yaml:"sections" json:"sections"`
	// FallbackActions are used when a section title is not recognized.
	FallbackActions []string `yaml:"fallback_actions" json:"-"`
}

const (
	sectionCount        = 9
	questionsPerSection = 10
	actionsPerSection   = 3
	fallbackActionCount = 2
)

// LoadQuestionnaire reads and parses the questionnaire catalog.
func LoadQuestionnaire(path string) (*Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire file: %w", err)
	}

	var q Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questionnaire YAML: %w", err)
	}

	if err := q.validate(); err != nil {
		return nil, fmt.Errorf("invalid questionnaire catalog: %w", err)
	}

	return &q, nil
}

// validate enforces the fixed shape of the catalog: nine sections with ids
// 1-9, ten questions each with ids "<id>.1".."<id>.10", and a complete
// action table.
func (q *Questionnaire) validate() error {
	if len(q.Sections) != sectionCount {
		return fmt.Errorf("expected %d sections, got %d", sectionCount, len(q.Sections))
	}
	if len(q.FallbackActions) != fallbackActionCount {
		return fmt.Errorf("expected %d fallback actions, got %d", fallbackActionCount, len(q.FallbackActions))
	}
	for i, s := range q.Sections {
		if s.ID != i+1 {
			return fmt.Errorf("section %d has id %d, expected %d", i, s.ID, i+1)
		}
		if s.Title == "" {
			return fmt.Errorf("section %d has an empty title", s.ID)
		}
		if len(s.Questions) != questionsPerSection {
			return fmt.Errorf("section %d has %d questions, expected %d", s.ID, len(s.Questions), questionsPerSection)
		}
		if len(s.Actions) != actionsPerSection {
			return fmt.Errorf("section %d has %d actions, expected %d", s.ID, len(s.Actions), actionsPerSection)
		}
		for j, question := range s.Questions {
			want := strconv.Itoa(s.ID) + "." + strconv.Itoa(j+1)
			if question.ID != want {
				return fmt.Errorf("section %d question %d has id %q, expected %q", s.ID, j, question.ID, want)
			}
		}
	}
	return nil
}

// SectionByID returns the section with the given numeric id.
func (q *Questionnaire) SectionByID(id int) (Section, bool) {
	for _, s := range q.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// SectionByTitle returns the section with the given title.
func (q *Questionnaire) SectionByTitle(title string) (Section, bool) {
	for _, s := range q.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// KnownQuestion reports whether the given question id belongs to the catalog.
func (q *Questionnaire) KnownQuestion(id string) bool {
	for _, s := range q.Sections {
		for _, question := range s.Questions {
			if question.ID == id {
				return true
			}
		}
	}
	return false
}
