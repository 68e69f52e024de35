package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// DailyUsageDAO handles per-user per-day usage counters.
type DailyUsageDAO struct {
	db *gorm.DB
}

func NewDailyUsageDAO(db *gorm.DB) *DailyUsageDAO {
	return &DailyUsageDAO{db: db}
}

// GetOrCreate fetches the usage row for (userID, date), creating a zeroed
// row if it does not exist yet. The create tolerates a concurrent insert
// of the same (user, date) so simultaneous first-of-day calls all succeed.
func (d *DailyUsageDAO) GetOrCreate(ctx context.Context, userID uint64, date string) (*models.DailyUsage, error) {
	row := &models.DailyUsage{UserID: userID, UsageDate: date}
	if err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "usage_date"}},
		DoNothing: true,
	}).Create(row).Error; err != nil {
		return nil, err
	}

	var usage models.DailyUsage
	if err := d.db.WithContext(ctx).
		Where("user_id = ? AND usage_date = ?", userID, date).
		First(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

// Increment bumps messages_sent by one and tokens_used by tokens in a
// single upsert statement. Concurrent calls for the same (user, date)
// must not lose updates, so the arithmetic happens in the database, not
// in application code.
func (d *DailyUsageDAO) Increment(ctx context.Context, userID uint64, date string, tokens int) error {
	row := &models.DailyUsage{
		UserID:       userID,
		UsageDate:    date,
		MessagesSent: 1,
		TokensUsed:   tokens,
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"messages_sent": gorm.Expr("messages_sent + ?", 1),
			"tokens_used":   gorm.Expr("tokens_used + ?", tokens),
		}),
	}).Create(row).Error
}
