package models

import (
	"time"

	"github.com/lib/pq"
)

// Company is an assessed organization. CNPJ is the Brazilian company
// registry number and is unique across the table.
type Company struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string         `json:"name" gorm:"not null"`
	CNPJ      string         `json:"cnpj" gorm:"uniqueIndex;not null"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	Sectors   pq.StringArray `json:"sectors" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
