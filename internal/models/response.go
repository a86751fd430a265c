package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AnswerMap maps a question id ("3.7") to its Likert value (0-4). Stored as
// a JSONB column.
type AnswerMap map[string]int

func (a AnswerMap) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AnswerMap) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AnswerMap", value)
	}
}

// SurveyResponse is one respondent's complete submission. Responses are
// anonymous: only role and department identify the respondent's position,
// never the person. Rows are immutable once inserted.
type SurveyResponse struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	CompanyID   *string   `json:"companyId" gorm:"type:uuid;index"`
	CompanyName string    `json:"companyName" gorm:"not null"`
	Role        string    `json:"role" gorm:"not null"`
	Department  string    `json:"department" gorm:"not null"`
	Answers     AnswerMap `json:"answers" gorm:"type:jsonb;not null"`
	SubmittedAt time.Time `json:"submittedAt" gorm:"index"`
}
