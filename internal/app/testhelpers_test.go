package app

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"time"

	"dj_booking_service/internal/domain/booking"
	"dj_booking_service/internal/domain/interaction"
	idb "dj_booking_service/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// fixedClock returns a settable instant so sweeps run at chosen times.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// fakeBookingRepo is an in-memory stand-in for the Postgres booking
// repository, mirroring its guard and claim semantics.
type fakeBookingRepo struct {
	requests    map[int64]*booking.Request
	nextID      int64
	scheduleErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{requests: make(map[int64]*booking.Request)}
}

func (f *fakeBookingRepo) add(req *booking.Request) *booking.Request {
	f.nextID++
	req.ID = f.nextID
	f.requests[req.ID] = req
	return req
}

func (f *fakeBookingRepo) Create(_ context.Context, req *booking.Request) error {
	f.add(req)
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*booking.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, idb.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, req *booking.Request) error {
	if _, ok := f.requests[req.ID]; !ok {
		return idb.ErrRequestNotFound
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeBookingRepo) sorted() []*booking.Request {
	out := make([]*booking.Request, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeBookingRepo) List(_ context.Context) ([]*booking.Request, error) {
	return f.sorted(), nil
}

func (f *fakeBookingRepo) ListByStatus(_ context.Context, status booking.Status) ([]*booking.Request, error) {
	out := make([]*booking.Request, 0)
	for _, req := range f.sorted() {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkQuoted(_ context.Context, id int64, amount float64) (*booking.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, idb.ErrRequestNotFound
	}
	if req.Status != booking.StatusNew {
		return nil, idb.ErrRequestNotNew
	}
	req.Status = booking.StatusQuoted
	req.QuoteAmount = sql.NullFloat64{Float64: amount, Valid: true}
	return req, nil
}

func (f *fakeBookingRepo) ClaimDueFollowUps(_ context.Context, asOf, staleBefore time.Time) ([]*booking.Request, error) {
	claimed := make([]*booking.Request, 0)
	for _, req := range f.sorted() {
		if req.Status != booking.StatusQuoted || req.HasResponded {
			continue
		}
		due := (req.NextFollowUpAt.Valid && !req.NextFollowUpAt.Time.After(asOf)) ||
			(!req.NextFollowUpAt.Valid && !req.UpdatedAt.After(asOf.AddDate(0, 0, -3)))
		if !due {
			continue
		}
		if req.ClaimedAt.Valid && !req.ClaimedAt.Time.Before(staleBefore) {
			continue // held by another worker
		}
		req.ClaimedAt = sql.NullTime{Time: asOf, Valid: true}
		claimed = append(claimed, req)
	}
	return claimed, nil
}

func (f *fakeBookingRepo) ReleaseClaim(_ context.Context, id int64) error {
	if req, ok := f.requests[id]; ok {
		req.ClaimedAt = sql.NullTime{}
	}
	return nil
}

func (f *fakeBookingRepo) ScheduleFollowUp(_ context.Context, id int64, date time.Time, entry booking.FollowUpEntry) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	req, ok := f.requests[id]
	if !ok {
		return idb.ErrRequestNotFound
	}
	if req.HasResponded {
		return idb.ErrAlreadyResponded
	}
	req.FollowUpCount++
	req.FollowUpHistory = append(req.FollowUpHistory, entry)
	req.NextFollowUpAt = sql.NullTime{Time: date, Valid: true}
	req.UpdatedAt = entry.ScheduledAt
	return nil
}

func (f *fakeBookingRepo) RecordClientResponse(_ context.Context, id int64, method booking.ResponseMethod, at time.Time) error {
	req, ok := f.requests[id]
	if !ok {
		return idb.ErrRequestNotFound
	}
	if req.HasResponded {
		return idb.ErrAlreadyResponded
	}
	req.HasResponded = true
	req.ResponseMethod = method
	req.LastResponseAt = sql.NullTime{Time: at, Valid: true}
	req.NextFollowUpAt = sql.NullTime{}
	req.UpdatedAt = at
	return nil
}

type fakeInteractionRepo struct {
	interactions []*interaction.Interaction
	createErr    error
}

func (f *fakeInteractionRepo) Create(_ context.Context, in *interaction.Interaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.interactions = append(f.interactions, in)
	return nil
}

func (f *fakeInteractionRepo) ListByRequest(_ context.Context, requestID int64) ([]*interaction.Interaction, error) {
	out := make([]*interaction.Interaction, 0)
	for _, in := range f.interactions {
		if in.RequestID == requestID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) ListManualReminders(_ context.Context, since time.Time) ([]*interaction.Interaction, error) {
	out := make([]*interaction.Interaction, 0)
	for _, in := range f.interactions {
		if in.IsFollowUp && !in.IsClientResponse && in.Method == booking.MethodNone && !in.CreatedAt.Before(since) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) forRequest(id int64) []*interaction.Interaction {
	out, _ := f.ListByRequest(context.Background(), id)
	return out
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// fakeMailer records outbound mail and can fail selected recipients.
type fakeMailer struct {
	sent   []sentMail
	failTo map[string]error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) NotifyAdmin(text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
