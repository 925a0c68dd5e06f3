// internal/app/followup_service.go
package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dj_booking_service/internal/domain/booking"
	"dj_booking_service/internal/domain/followup"
	"dj_booking_service/internal/domain/interaction"
	"dj_booking_service/internal/domain/mail"
	"dj_booking_service/internal/infra/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrFollowUpNotAllowed is returned when the policy gate blocks a manual
// send: the client responded, the request left QUOTED, or the cap is hit.
var ErrFollowUpNotAllowed = fmt.Errorf("follow-up not allowed for this booking request")

// AdminNotifier pushes short operational alerts to a human operator.
// Implementations must be safe to call from the sweep goroutine.
type AdminNotifier interface {
	NotifyAdmin(text string) error
}

// FollowUpService defines the operations of the follow-up workflow: the
// periodic dispatcher sweep plus the manual admin actions.
type FollowUpService interface {
	// ProcessPendingFollowUps runs one dispatcher sweep: claims every due
	// booking request and, per request, either schedules a first follow-up,
	// sends an automated follow-up email, or logs a manual reminder.
	ProcessPendingFollowUps(ctx context.Context) error

	// SendFollowUpNow sends the next automated follow-up for one request
	// immediately, bypassing the due-date check but not the policy gate.
	SendFollowUpNow(ctx context.Context, requestID int64) error

	// ScheduleFollowUp persists the next follow-up date for a request:
	// explicitDate if given, otherwise now + the default first-touch delay.
	// Returns the effective date.
	ScheduleFollowUp(ctx context.Context, requestID int64, explicitDate *time.Time) (time.Time, error)
}

// FollowUpServiceImpl implements the FollowUpService interface.
type FollowUpServiceImpl struct {
	bookingRepo     booking.Repository
	interactionRepo interaction.Repository
	mailClient      mail.Client
	notifier        AdminNotifier // may be nil when alerts are not configured
	clock           clock.Clock
	logger          *logrus.Logger
	claimLease      time.Duration
}

func NewFollowUpServiceImpl(
	br booking.Repository,
	ir interaction.Repository,
	mc mail.Client,
	notifier AdminNotifier,
	clk clock.Clock,
	logger *logrus.Logger,
	claimLease time.Duration,
) *FollowUpServiceImpl {
	return &FollowUpServiceImpl{
		bookingRepo:     br,
		interactionRepo: ir,
		mailClient:      mc,
		notifier:        notifier,
		clock:           clk,
		logger:          logger,
		claimLease:      claimLease,
	}
}

// ProcessPendingFollowUps runs one sweep. Failures on individual candidates
// are logged and never abort the remaining candidates; only a store failure
// on the claim itself fails the sweep (the next scheduled run retries).
func (s *FollowUpServiceImpl) ProcessPendingFollowUps(ctx context.Context) error {
	now := s.clock.Now()
	log := s.logger.WithFields(logrus.Fields{
		"job":    "follow_up_sweep",
		"run_id": uuid.NewString(),
	})

	candidates, err := s.bookingRepo.ClaimDueFollowUps(ctx, now, now.Add(-s.claimLease))
	if err != nil {
		return fmt.Errorf("failed to claim due follow-ups: %w", err)
	}
	log.WithField("candidates", len(candidates)).Info("Follow-up sweep started")

	failed := 0
	for _, req := range candidates {
		if err := s.processCandidate(ctx, log, req, now); err != nil {
			failed++
			log.WithError(err).WithField("request_id", req.ID).Error("Failed to process follow-up candidate")
		}
		if err := s.bookingRepo.ReleaseClaim(ctx, req.ID); err != nil {
			log.WithError(err).WithField("request_id", req.ID).Error("Failed to release follow-up claim")
		}
	}

	if failed > 0 && s.notifier != nil {
		msg := fmt.Sprintf("Follow-up sweep finished: %d of %d candidates failed, see logs.", failed, len(candidates))
		if err := s.notifier.NotifyAdmin(msg); err != nil {
			log.WithError(err).Warn("Failed to send admin alert for sweep failures")
		}
	}

	log.WithFields(logrus.Fields{"processed": len(candidates), "failed": failed}).Info("Follow-up sweep finished")
	return nil
}

func (s *FollowUpServiceImpl) processCandidate(ctx context.Context, log *logrus.Entry, req *booking.Request, now time.Time) error {
	// Never scheduled before: set up the first touch, no email on this pass.
	if req.FollowUpCount == 0 {
		effective, err := s.schedule(ctx, req.ID, nil, now)
		if err != nil {
			return fmt.Errorf("failed to schedule first follow-up: %w", err)
		}
		log.WithFields(logrus.Fields{
			"request_id":   req.ID,
			"follow_up_at": effective.Format("2006-01-02"),
		}).Info("First follow-up scheduled")
		return nil
	}

	if !req.AutomatedFollowUp {
		return s.logManualReminder(ctx, log, req)
	}

	return s.sendAutomatedFollowUp(ctx, log, req, now)
}

// logManualReminder records a reminder interaction for a human to act on.
// The schedule is left untouched, so the request stays on the dashboard
// until someone deals with it.
func (s *FollowUpServiceImpl) logManualReminder(ctx context.Context, log *logrus.Entry, req *booking.Request) error {
	in := &interaction.Interaction{
		RequestID:        req.ID,
		Method:           booking.MethodNone,
		Notes:            fmt.Sprintf("Follow-up due for %s — automated sending disabled, manual action required", req.ClientName),
		Metadata:         map[string]string{"follow_up_count": strconv.Itoa(req.FollowUpCount)},
		IsFollowUp:       true,
		IsClientResponse: false,
	}
	if err := s.interactionRepo.Create(ctx, in); err != nil {
		return fmt.Errorf("failed to log manual reminder: %w", err)
	}
	log.WithField("request_id", req.ID).Info("Manual follow-up reminder logged")

	if s.notifier != nil {
		msg := fmt.Sprintf("Manual follow-up due for booking request #%d (%s).", req.ID, req.ClientName)
		if err := s.notifier.NotifyAdmin(msg); err != nil {
			log.WithError(err).WithField("request_id", req.ID).Warn("Failed to send manual reminder alert")
		}
	}
	return nil
}

// sendAutomatedFollowUp runs the automated branch for one request: policy
// gate, render, send, log the interaction and advance the schedule. A mail
// failure leaves next_follow_up_at unchanged so the request is retried on
// the next sweep.
func (s *FollowUpServiceImpl) sendAutomatedFollowUp(ctx context.Context, log *logrus.Entry, req *booking.Request, now time.Time) error {
	if !followup.ShouldSend(req) {
		log.WithFields(logrus.Fields{
			"request_id":      req.ID,
			"status":          req.Status,
			"follow_up_count": req.FollowUpCount,
		}).Debug("Follow-up suppressed by policy")
		return nil
	}

	n := req.FollowUpCount
	if req.ClientEmail == "" {
		return fmt.Errorf("booking request %d has no contact email", req.ID)
	}

	subject := followup.SubjectFor(n)
	body := followup.BodyFor(req, n)
	if err := s.mailClient.Send(req.ClientEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send follow-up email #%d: %w", n, err)
	}
	log.WithFields(logrus.Fields{"request_id": req.ID, "follow_up_number": n}).Info("Follow-up email sent")

	in := &interaction.Interaction{
		RequestID: req.ID,
		Method:    booking.MethodEmail,
		Notes:     fmt.Sprintf("Follow-up email #%d sent", n),
		Metadata: map[string]string{
			"subject":          subject,
			"follow_up_number": strconv.Itoa(n),
		},
		IsFollowUp:       true,
		IsClientResponse: false,
	}
	if err := s.interactionRepo.Create(ctx, in); err != nil {
		// The email is already out; losing the log line must not block the
		// schedule advance, or the client would be mailed again tomorrow.
		log.WithError(err).WithField("request_id", req.ID).Error("Failed to log follow-up interaction")
	}

	if n < followup.MaxFollowUps {
		next := now.AddDate(0, 0, followup.NextDelayDays(n))
		if _, err := s.schedule(ctx, req.ID, &next, now); err != nil {
			return fmt.Errorf("failed to schedule next follow-up: %w", err)
		}
	}
	return nil
}

// SendFollowUpNow is the operator's "send follow-up email" action.
func (s *FollowUpServiceImpl) SendFollowUpNow(ctx context.Context, requestID int64) error {
	req, err := s.bookingRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get booking request %d: %w", requestID, err)
	}
	if !followup.ShouldSend(req) {
		return ErrFollowUpNotAllowed
	}

	now := s.clock.Now()
	log := s.logger.WithField("job", "manual_follow_up")
	return s.sendAutomatedFollowUp(ctx, log, req, now)
}

// ScheduleFollowUp persists the next follow-up date and returns the
// effective date for UI confirmation. Scheduling increments
// follow_up_count even though no email has been sent; dashboard counts
// depend on that numbering.
func (s *FollowUpServiceImpl) ScheduleFollowUp(ctx context.Context, requestID int64, explicitDate *time.Time) (time.Time, error) {
	return s.schedule(ctx, requestID, explicitDate, s.clock.Now())
}

func (s *FollowUpServiceImpl) schedule(ctx context.Context, requestID int64, explicitDate *time.Time, now time.Time) (time.Time, error) {
	effective := now.AddDate(0, 0, followup.DefaultFirstDelayDays)
	if explicitDate != nil {
		effective = *explicitDate
	}
	entry := booking.NewFollowUpEntry(effective, now)
	if err := s.bookingRepo.ScheduleFollowUp(ctx, requestID, effective, entry); err != nil {
		return time.Time{}, err
	}
	return effective, nil
}
