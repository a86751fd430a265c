package repository

import (
	"context"
	"errors"
	"time"

	"github.com/raulvilera/projetoarp/internal/database"
	"github.com/raulvilera/projetoarp/internal/models"

	"gorm.io/gorm"
)

// GetSubscriptionByUser returns the most recent subscription for a user, or
// nil when the user never subscribed.
func GetSubscriptionByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription records the payment provider's view of a subscription.
// The provider's subscription id is the primary key, so repeated webhook
// deliveries for the same subscription overwrite rather than duplicate.
func UpsertSubscription(ctx context.Context, id string, userID uint, planID, status string, endsAt *time.Time) (*models.Subscription, error) {
	sub := &models.Subscription{
		ID:     id,
		UserID: userID,
		PlanID: planID,
		Status: status,
		EndsAt: endsAt,
	}
	err := database.DB.WithContext(ctx).Save(sub).Error
	return sub, err
}

// HasActiveSubscription reports whether the user currently holds an active,
// unexpired subscription.
func HasActiveSubscription(ctx context.Context, userID uint) (bool, error) {
	sub, err := GetSubscriptionByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}
	return sub.IsActive(time.Now()), nil
}
