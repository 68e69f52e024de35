package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// SubscriptionPlanDAO handles plan reference data.
type SubscriptionPlanDAO struct {
	db *gorm.DB
}

func NewSubscriptionPlanDAO(db *gorm.DB) *SubscriptionPlanDAO {
	return &SubscriptionPlanDAO{db: db}
}

// GetPlanByName retrieves a plan by its unique name.
func (d *SubscriptionPlanDAO) GetPlanByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlanByID retrieves a plan by primary key.
func (d *SubscriptionPlanDAO) GetPlanByID(ctx context.Context, id uint64) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := d.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// SeedDefaultPlans creates the baseline plans if they are absent. The
// "Free" plan is a deployment precondition for plan resolution.
func (d *SubscriptionPlanDAO) SeedDefaultPlans(ctx context.Context) error {
	freeLimit := 100
	plans := []models.SubscriptionPlan{
		{
			Name:               "Free",
			Description:        "The default free plan for all new users.",
			PricePerMonth:      0,
			MessageLimitPerDay: &freeLimit,
		},
		{
			Name:          "Pro",
			Description:   "Unlimited daily messages.",
			PricePerMonth: 9.99,
			// nil limit means unlimited
		},
	}
	for i := range plans {
		var existing models.SubscriptionPlan
		err := d.db.WithContext(ctx).Where("name = ?", plans[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := d.db.WithContext(ctx).Create(&plans[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
