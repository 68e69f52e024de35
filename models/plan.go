package models

import "time"

// SubscriptionPlan is seeded reference data. A nil or negative
// MessageLimitPerDay means unlimited.
type SubscriptionPlan struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"uniqueIndex;not null" json:"name"`
	Description        string    `json:"description"`
	PricePerMonth      float64   `gorm:"default:0" json:"price_per_month"`
	MessageLimitPerDay *int      `json:"message_limit_per_day"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Unlimited reports whether the plan imposes no daily message cap.
func (p *SubscriptionPlan) Unlimited() bool {
	return p.MessageLimitPerDay == nil || *p.MessageLimitPerDay < 0
}
