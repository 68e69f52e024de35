package models

import "time"

// UserSubscription links a user to a plan. At most one row per user is
// active at any time; activation deactivates the prior row in the same
// transaction.
type UserSubscription struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	PlanID        uint64    `gorm:"not null" json:"plan_id"`
	IsActive      bool      `gorm:"default:true;index" json:"is_active"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
