package logic

import (
	"context"
	"net/http"
	"time"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// UsageLogic tracks per-user per-day counters and decides admission.
// The clock and location are injected so day rollover is testable; day
// bucketing always uses the single configured reference timezone.
type UsageLogic struct {
	usageDAO *dao.DailyUsageDAO
	subs     *SubscriptionLogic
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

func NewUsageLogic(
	usageDAO *dao.DailyUsageDAO,
	subs *SubscriptionLogic,
	loc *time.Location,
	now func() time.Time,
	baseLog *logger.Logger,
) *UsageLogic {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &UsageLogic{
		usageDAO: usageDAO,
		subs:     subs,
		loc:      loc,
		now:      now,
		log:      baseLog.With("logic", "UsageLogic"),
	}
}

func (l *UsageLogic) today() string {
	return l.now().In(l.loc).Format("2006-01-02")
}

// Admit decides whether the user may send another message today. When
// usage state cannot be read the decision fails closed: the message is
// denied, never waved through.
func (l *UsageLogic) Admit(ctx context.Context, user *models.User) error {
	plan, err := l.subs.ActivePlanFor(ctx, user)
	if err != nil {
		if apperr.CodeOf(err) != "" {
			return err
		}
		l.log.Error("plan resolution failed, denying admission", "user_id", user.ID, "error", err.Error())
		return apperr.New(http.StatusServiceUnavailable, "usage_unavailable", err)
	}

	usage, err := l.usageDAO.GetOrCreate(ctx, user.ID, l.today())
	if err != nil {
		l.log.Error("usage state unavailable, denying admission", "user_id", user.ID, "error", err.Error())
		return apperr.New(http.StatusServiceUnavailable, "usage_unavailable", err)
	}

	if plan.Unlimited() {
		return nil
	}
	if usage.MessagesSent >= *plan.MessageLimitPerDay {
		return apperr.QuotaExceeded("daily message limit reached for your current plan; upgrade your plan or try again tomorrow")
	}
	return nil
}

// Record counts one sent message and the tokens it consumed. The
// increment is a single atomic statement at the storage layer so
// concurrent sends for the same user never lose updates.
func (l *UsageLogic) Record(ctx context.Context, user *models.User, tokens int) error {
	return l.usageDAO.Increment(ctx, user.ID, l.today(), tokens)
}

// TodayUsage returns the user's counters for the current day.
func (l *UsageLogic) TodayUsage(ctx context.Context, user *models.User) (*models.DailyUsage, error) {
	return l.usageDAO.GetOrCreate(ctx, user.ID, l.today())
}
