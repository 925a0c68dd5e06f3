package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dj_booking_service/internal/domain/booking"
	"dj_booking_service/internal/domain/interaction"
	"dj_booking_service/internal/infra/clock"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for booking service
var ErrInvalidResponseMethod = fmt.Errorf("invalid client response method")
var ErrMissingClientDetails = fmt.Errorf("client name and email are required")

// CreateRequestParams carries the fields a new booking request needs.
type CreateRequestParams struct {
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	EventDate         time.Time
	DJID              *int64
	AutomatedFollowUp bool
}

// BookingService handles booking request administration: CRUD, quoting and
// client response recording.
type BookingService struct {
	bookingRepo     booking.Repository
	interactionRepo interaction.Repository
	clock           clock.Clock
	logger          *logrus.Logger
}

func NewBookingService(br booking.Repository, ir interaction.Repository, clk clock.Clock, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookingRepo:     br,
		interactionRepo: ir,
		clock:           clk,
		logger:          logger,
	}
}

func (s *BookingService) CreateRequest(ctx context.Context, params CreateRequestParams) (*booking.Request, error) {
	if params.ClientName == "" || params.ClientEmail == "" {
		return nil, ErrMissingClientDetails
	}

	req := &booking.Request{
		ClientName:        params.ClientName,
		ClientEmail:       params.ClientEmail,
		EventDate:         params.EventDate,
		Status:            booking.StatusNew,
		ResponseMethod:    booking.MethodNone,
		FollowUpHistory:   []booking.FollowUpEntry{},
		AutomatedFollowUp: params.AutomatedFollowUp,
	}
	if params.ClientPhone != "" {
		req.ClientPhone = sql.NullString{String: params.ClientPhone, Valid: true}
	}
	if params.DJID != nil {
		req.DJID = sql.NullInt64{Int64: *params.DJID, Valid: true}
	}

	if err := s.bookingRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create booking request: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"request_id": req.ID, "client": req.ClientName}).Info("Booking request created")
	return req, nil
}

func (s *BookingService) GetRequest(ctx context.Context, id int64) (*booking.Request, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) ListRequests(ctx context.Context, status booking.Status) ([]*booking.Request, error) {
	if status == "" {
		return s.bookingRepo.List(ctx)
	}
	return s.bookingRepo.ListByStatus(ctx, status)
}

// MarkQuoted transitions a NEW request to QUOTED with the given quote
// amount. This is the moment the request enters the follow-up workflow.
func (s *BookingService) MarkQuoted(ctx context.Context, id int64, amount float64) (*booking.Request, error) {
	req, err := s.bookingRepo.MarkQuoted(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"request_id": id, "quote_amount": amount}).Info("Booking request quoted")
	return req, nil
}

// CancelRequest moves a request to CANCELLED and clears any pending
// follow-up so the sweep stops selecting it.
func (s *BookingService) CancelRequest(ctx context.Context, id int64) (*booking.Request, error) {
	req, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Status = booking.StatusCancelled
	req.NextFollowUpAt = sql.NullTime{}
	if err := s.bookingRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to cancel booking request: %w", err)
	}
	s.logger.WithField("request_id", id).Info("Booking request cancelled")
	return req, nil
}

// RecordClientResponse marks the request as responded via the given channel,
// clears the pending follow-up and appends a response interaction. The
// request is permanently out of the dispatcher sweep afterwards.
func (s *BookingService) RecordClientResponse(ctx context.Context, id int64, method booking.ResponseMethod) error {
	if !booking.ValidResponseMethod(method) {
		return ErrInvalidResponseMethod
	}

	now := s.clock.Now()
	if err := s.bookingRepo.RecordClientResponse(ctx, id, method, now); err != nil {
		return err
	}

	in := &interaction.Interaction{
		RequestID:        id,
		Method:           method,
		Notes:            fmt.Sprintf("Client responded via %s", method),
		IsFollowUp:       false,
		IsClientResponse: true,
	}
	if err := s.interactionRepo.Create(ctx, in); err != nil {
		// The response itself is recorded; a missing log entry is
		// recoverable and must not fail the operation.
		s.logger.WithError(err).WithField("request_id", id).Error("Failed to log client response interaction")
	}

	s.logger.WithFields(logrus.Fields{"request_id": id, "method": method}).Info("Client response recorded")
	return nil
}

func (s *BookingService) ListInteractions(ctx context.Context, requestID int64) ([]*interaction.Interaction, error) {
	if _, err := s.bookingRepo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.interactionRepo.ListByRequest(ctx, requestID)
}

// ListManualReminders returns the manual reminder feed for the dashboard,
// covering the given look-back window.
func (s *BookingService) ListManualReminders(ctx context.Context, lookBack time.Duration) ([]*interaction.Interaction, error) {
	since := s.clock.Now().Add(-lookBack)
	return s.interactionRepo.ListManualReminders(ctx, since)
}
