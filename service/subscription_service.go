package service

import (
	"context"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/metrics"
	"github.com/annazecevic/music-service/repository"
	"github.com/google/uuid"
)

// DefaultPlans are written by the seed command when missing.
var DefaultPlans = []domain.SubscriptionPlan{
	{Name: "Basic", PriceCents: 29900, DurationInDays: 30},
	{Name: "Premium", PriceCents: 79900, DurationInDays: 90},
}

type SubscriptionService interface {
	// Subscribe creates the user's active subscription or extends the one
	// that exists. Payment is mocked: each call records a new payment id.
	Subscribe(ctx context.Context, username string, days int) (*domain.UserSubscription, error)
	SubscribeToPlan(ctx context.Context, username, planID string) (*domain.UserSubscription, error)
	GetActive(ctx context.Context, userID string) (*domain.UserSubscription, error)
	ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	SeedPlans(ctx context.Context) error
	DeactivateExpired(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subs  repository.SubscriptionRepository
	plans repository.PlanRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewSubscriptionService(subs repository.SubscriptionRepository, plans repository.PlanRepository, users repository.UserRepository) SubscriptionService {
	return &subscriptionService{
		subs:  subs,
		plans: plans,
		users: users,
		now:   time.Now,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, username string, days int) (*domain.UserSubscription, error) {
	if days <= 0 {
		return nil, domain.NewValidation("days", "must be positive")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	existing, err := s.subs.FindActiveByUserID(ctx, user.ID)
	if err != nil {
		metrics.RecordSubscription("error")
		return nil, err
	}

	paymentID := domain.PaymentIDPrefix + uuid.New().String()

	if existing == nil {
		now := s.now().UTC()
		sub := &domain.UserSubscription{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			StartDate:  now,
			EndDate:    domain.AddDays(now, days),
			IsActive:   true,
			PaymentIDs: []string{paymentID},
		}
		if err := s.subs.Create(ctx, sub); err != nil {
			s.recordFailure(user.ID, err)
			return nil, err
		}

		metrics.RecordSubscription("created")
		logger.Info(logger.EventSubscription, "Subscription created", logger.Fields(
			"user_id", user.ID,
			"subscription_id", sub.ID,
			"days", days,
			"end_date", sub.EndDate,
		))
		return sub, nil
	}

	// Extension counts from the stored end date, not from now.
	expected := existing.Version
	existing.EndDate = domain.AddDays(existing.EndDate, days)
	existing.PaymentIDs = append(existing.PaymentIDs, paymentID)
	existing.Version = expected + 1

	if err := s.subs.Extend(ctx, existing, expected); err != nil {
		s.recordFailure(user.ID, err)
		return nil, err
	}

	metrics.RecordSubscription("extended")
	logger.Info(logger.EventSubscription, "Subscription extended", logger.Fields(
		"user_id", user.ID,
		"subscription_id", existing.ID,
		"days", days,
		"end_date", existing.EndDate,
	))
	return existing, nil
}

func (s *subscriptionService) recordFailure(userID string, err error) {
	if domain.IsConflict(err) {
		metrics.RecordSubscription("conflict")
		logger.Warn(logger.EventConflict, "Concurrent subscription write rejected", logger.Fields(
			"user_id", userID,
		))
		return
	}
	metrics.RecordSubscription("error")
}

func (s *subscriptionService) SubscribeToPlan(ctx context.Context, username, planID string) (*domain.UserSubscription, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.Subscribe(ctx, username, plan.DurationInDays)
}

func (s *subscriptionService) GetActive(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	return s.subs.FindActiveByUserID(ctx, userID)
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	return s.plans.List(ctx)
}

func (s *subscriptionService) SeedPlans(ctx context.Context) error {
	for _, p := range DefaultPlans {
		plan := p
		plan.ID = uuid.New().String()

		inserted, err := s.plans.EnsureByName(ctx, &plan)
		if err != nil {
			return err
		}
		if inserted {
			logger.Info(logger.EventSubscription, "Subscription plan seeded", logger.Fields(
				"plan", plan.Name,
				"duration_in_days", plan.DurationInDays,
			))
		}
	}
	return nil
}

func (s *subscriptionService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.subs.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		logger.Error(logger.EventSubscriptionSweep, "Expiry sweep failed", logger.Fields(
			"error", err.Error(),
		))
		return 0, err
	}

	metrics.RecordDeactivated(n)
	if n > 0 {
		logger.Info(logger.EventSubscriptionSweep, "Expired subscriptions deactivated", logger.Fields(
			"count", n,
		))
	}
	return n, nil
}
