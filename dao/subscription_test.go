package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

func TestActivateDeactivatesPrior(t *testing.T) {
	db := newTestDB(t)
	d := NewUserSubscriptionDAO(db)
	ctx := context.Background()

	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	first, err := d.Activate(ctx, 1, 10, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.True(t, first.IsActive)

	second, err := d.Activate(ctx, 1, 20, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.True(t, second.IsActive)

	// only the new subscription stays active
	active, err := d.GetActiveByUserID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
	require.Equal(t, uint64(20), active.PlanID)

	var count int64
	require.NoError(t, db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", 1, true).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	// the prior one was stamped with an end date
	var old models.UserSubscription
	require.NoError(t, db.First(&old, first.ID).Error)
	require.False(t, old.IsActive)
	require.Equal(t, start.Format("2006-01-02"), old.EndDate.Format("2006-01-02"))
}

func TestGetActiveByUserIDNotFound(t *testing.T) {
	db := newTestDB(t)
	d := NewUserSubscriptionDAO(db)

	_, err := d.GetActiveByUserID(context.Background(), 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
