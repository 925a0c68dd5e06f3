package scheduler

import (
	"context"
	"time"

	"dj_booking_service/internal/app" // For FollowUpService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SweepScheduler owns the cron engine that fires the daily follow-up sweep.
type SweepScheduler struct {
	cronEngine    *cron.Cron
	followUpSvc   app.FollowUpService // Using the interface
	logger        *logrus.Logger
	cronSpecSweep string
	sweepTimeout  time.Duration
}

func NewSweepScheduler(
	followUpSvc app.FollowUpService,
	logger *logrus.Logger,
	cronSpecSweep string, // e.g., "0 9 * * *" (9:00 AM daily)
	sweepTimeout time.Duration,
) *SweepScheduler {
	return &SweepScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		followUpSvc:   followUpSvc,
		logger:        logger,
		cronSpecSweep: cronSpecSweep,
		sweepTimeout:  sweepTimeout,
	}
}

func (s *SweepScheduler) Start() {
	s.logger.Info("Starting follow-up sweep scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, func() {
		s.logger.Info("Cron job triggered for daily follow-up sweep.")
		ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
		defer cancel()
		if err := s.followUpSvc.ProcessPendingFollowUps(ctx); err != nil {
			s.logger.WithError(err).Error("Error during follow-up sweep")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add follow-up sweep cron job")
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpecSweep).Info("Follow-up sweep scheduler started.")
}

// RunNow triggers one sweep outside the cron cadence, for operator use.
func (s *SweepScheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.sweepTimeout)
	defer cancel()
	return s.followUpSvc.ProcessPendingFollowUps(ctx)
}

func (s *SweepScheduler) Stop() {
	s.logger.Info("Stopping follow-up sweep scheduler...")
	ctx := s.cronEngine.Stop() // Stops new runs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Follow-up sweep scheduler gracefully stopped.")
}
