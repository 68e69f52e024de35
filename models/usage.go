package models

// DailyUsage holds per-user per-calendar-day counters. One row per
// (user, date); created lazily on first use of a day and incremented
// with a single atomic upsert.
type DailyUsage struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64 `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	UsageDate    string `gorm:"not null;uniqueIndex:idx_user_date" json:"usage_date"` // YYYY-MM-DD
	MessagesSent int    `gorm:"default:0" json:"messages_sent"`
	TokensUsed   int    `gorm:"default:0" json:"tokens_used"`
}
