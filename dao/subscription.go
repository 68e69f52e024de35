package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// UserSubscriptionDAO handles subscription rows.
type UserSubscriptionDAO struct {
	db *gorm.DB
}

func NewUserSubscriptionDAO(db *gorm.DB) *UserSubscriptionDAO {
	return &UserSubscriptionDAO{db: db}
}

// GetActiveByUserID retrieves the user's active subscription, or
// gorm.ErrRecordNotFound when none is active.
func (d *UserSubscriptionDAO) GetActiveByUserID(ctx context.Context, userID uint64) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	if err := d.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Activate deactivates the user's current active subscription and creates
// a new active one in the same transaction. Either both persist or
// neither does.
func (d *UserSubscriptionDAO) Activate(ctx context.Context, userID, planID uint64, start, end time.Time) (*models.UserSubscription, error) {
	sub := &models.UserSubscription{
		UserID:        userID,
		PlanID:        planID,
		IsActive:      true,
		StartDate:     start,
		EndDate:       end,
		PaymentStatus: "Paid",
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserSubscription{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Updates(map[string]interface{}{"is_active": false, "end_date": start}).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
