package service

import (
	"context"
	"fmt"

	"github.com/annazecevic/music-service/logger"
	"github.com/robfig/cron/v3"
)

// ExpirySweeper periodically clears the active flag on subscriptions whose
// end date has passed. Running it is optional; reads compare EndDate anyway.
type ExpirySweeper struct {
	subs     SubscriptionService
	schedule string
	cron     *cron.Cron
}

func NewExpirySweeper(subs SubscriptionService, schedule string) *ExpirySweeper {
	return &ExpirySweeper{
		subs:     subs,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

func (s *ExpirySweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	logger.Info(logger.EventSubscriptionSweep, "Expiry sweeper started", logger.Fields(
		"schedule", s.schedule,
	))
	return nil
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *ExpirySweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *ExpirySweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.subs.DeactivateExpired(ctx)
}
