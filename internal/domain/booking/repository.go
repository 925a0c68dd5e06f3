// internal/domain/booking/repository.go
package booking

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving booking
// requests, including the follow-up bookkeeping mutations. Multi-field
// follow-up mutations (ScheduleFollowUp, RecordClientResponse) must be
// applied atomically: partial application must never be observable.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	Update(ctx context.Context, req *Request) error
	List(ctx context.Context) ([]*Request, error)
	ListByStatus(ctx context.Context, status Status) ([]*Request, error)

	// MarkQuoted transitions a NEW request to QUOTED and stamps the quote
	// amount. This is the entry point into the follow-up workflow.
	MarkQuoted(ctx context.Context, id int64, amount float64) (*Request, error)

	// ClaimDueFollowUps atomically claims and returns every request that is
	// due for a follow-up as of asOf: QUOTED, unresponded, and either past
	// its next_follow_up_at or never scheduled and untouched for 3 days.
	// Requests already claimed at or after staleBefore are skipped so
	// concurrent sweeps never double-claim.
	ClaimDueFollowUps(ctx context.Context, asOf, staleBefore time.Time) ([]*Request, error)

	// ReleaseClaim clears the sweep claim marker on a request.
	ReleaseClaim(ctx context.Context, id int64) error

	// ScheduleFollowUp increments follow_up_count, appends entry to the
	// follow-up history and sets next_follow_up_at to date, all in one
	// atomic update. Fails with ErrAlreadyResponded if the client responded
	// in the meantime.
	ScheduleFollowUp(ctx context.Context, id int64, date time.Time, entry FollowUpEntry) error

	// RecordClientResponse marks the request as responded via method at the
	// given time and clears next_follow_up_at, atomically. A request that
	// already responded is not updated again.
	RecordClientResponse(ctx context.Context, id int64, method ResponseMethod, at time.Time) error
}
