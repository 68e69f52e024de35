package logic

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// BaselinePlanName is the plan every user falls back to without an
// active subscription. Its presence is a deployment precondition.
const BaselinePlanName = "Free"

const subscriptionTermDays = 30

// SubscriptionLogic resolves the plan currently governing a user and
// switches users between plans.
type SubscriptionLogic struct {
	subDAO  *dao.UserSubscriptionDAO
	planDAO *dao.SubscriptionPlanDAO
	log     *logger.Logger
}

func NewSubscriptionLogic(
	subDAO *dao.UserSubscriptionDAO,
	planDAO *dao.SubscriptionPlanDAO,
	baseLog *logger.Logger,
) *SubscriptionLogic {
	return &SubscriptionLogic{
		subDAO:  subDAO,
		planDAO: planDAO,
		log:     baseLog.With("logic", "SubscriptionLogic"),
	}
}

// ActivePlanFor resolves the plan of the user's active subscription,
// falling back to the baseline plan when there is no active subscription
// or its plan is gone.
func (l *SubscriptionLogic) ActivePlanFor(ctx context.Context, user *models.User) (*models.SubscriptionPlan, error) {
	sub, err := l.subDAO.GetActiveByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return l.baselinePlan(ctx)
		}
		return nil, err
	}

	plan, err := l.planDAO.GetPlanByID(ctx, sub.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return l.baselinePlan(ctx)
		}
		return nil, err
	}
	return plan, nil
}

func (l *SubscriptionLogic) baselinePlan(ctx context.Context) (*models.SubscriptionPlan, error) {
	plan, err := l.planDAO.GetPlanByName(ctx, BaselinePlanName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.log.Error("baseline plan missing from reference data", "plan", BaselinePlanName)
			return nil, apperr.Configuration("default 'Free' plan not found; database seeding incomplete")
		}
		return nil, err
	}
	return plan, nil
}

// ActivatePlan subscribes the user to the named plan. The previous
// active subscription is deactivated and the new one created atomically.
func (l *SubscriptionLogic) ActivatePlan(ctx context.Context, user *models.User, planName string) (*models.UserSubscription, error) {
	plan, err := l.planDAO.GetPlanByName(ctx, planName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan", planName)
		}
		return nil, err
	}

	start := time.Now()
	sub, err := l.subDAO.Activate(ctx, user.ID, plan.ID, start, start.AddDate(0, 0, subscriptionTermDays))
	if err != nil {
		return nil, err
	}
	l.log.Info("subscription activated", "user_id", user.ID, "plan", plan.Name)
	return sub, nil
}

// CurrentSubscription returns the user's active subscription, or nil
// when the user is on the implicit baseline plan.
func (l *SubscriptionLogic) CurrentSubscription(ctx context.Context, user *models.User) (*models.UserSubscription, error) {
	sub, err := l.subDAO.GetActiveByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}
