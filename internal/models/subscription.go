package models

import "time"

// Subscription plan identifiers, as reported by the payment provider.
const (
	PlanBasico        = "basico"
	PlanIntermediario = "intermediario"
	PlanMensal        = "mensal"
	PlanAnual         = "anual"
)

// Subscription statuses.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionCanceled = "canceled"
)

// Subscription mirrors the payment provider's state for one user. Updated
// exclusively through the payment webhook.
type Subscription struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"index;not null"`
	User      User       `json:"-" gorm:"foreignKey:UserID"`
	PlanID    string     `json:"plan"`
	Status    string     `json:"status" gorm:"index"`
	EndsAt    *time.Time `json:"endsAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsActive reports whether the subscription currently grants dashboard
// access. A nil EndsAt means the subscription does not expire on its own.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.EndsAt != nil && s.EndsAt.Before(now) {
		return false
	}
	return true
}
