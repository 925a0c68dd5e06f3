// internal/domain/booking/request.go
package booking

import (
	"database/sql"
	"time"
)

// Request represents a client's inquiry for DJ services, tracked from
// submission through quoting to confirmation or cancellation.
// Corresponds to the 'booking_requests' table.
type Request struct {
	ID          int64
	ClientName  string
	ClientEmail string
	ClientPhone sql.NullString
	EventDate   time.Time
	DJID        sql.NullInt64 // Assigned DJ, if any
	QuoteAmount sql.NullFloat64
	Status      Status

	// Follow-up bookkeeping. FollowUpCount counts scheduling actions, not
	// sends: a request that has only ever been scheduled shows count 1 with
	// zero emails out. Dashboards depend on this numbering.
	HasResponded      bool
	ResponseMethod    ResponseMethod
	LastResponseAt    sql.NullTime
	NextFollowUpAt    sql.NullTime
	FollowUpCount     int
	FollowUpHistory   []FollowUpEntry
	AutomatedFollowUp bool

	// ClaimedAt marks the request as taken by a running sweep so a second
	// worker cannot double-send. Stale claims are reclaimable after a lease.
	ClaimedAt sql.NullTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FollowUpEntry is one element of the append-only follow-up history: one
// entry per scheduling action (not per email sent).
type FollowUpEntry struct {
	Date        string    `json:"date"` // date-only, YYYY-MM-DD
	ScheduledAt time.Time `json:"scheduled_at"`
}

// NewFollowUpEntry builds a history entry for a follow-up scheduled for
// effectiveDate at scheduling time now.
func NewFollowUpEntry(effectiveDate, now time.Time) FollowUpEntry {
	return FollowUpEntry{
		Date:        effectiveDate.Format("2006-01-02"),
		ScheduledAt: now,
	}
}
