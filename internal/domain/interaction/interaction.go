// internal/domain/interaction/interaction.go
package interaction

import (
	"time"

	"dj_booking_service/internal/domain/booking"
)

// Interaction is one logged client-facing touchpoint: an outbound follow-up,
// an inbound client response, or a manual reminder left for a human.
// Append-only: this workflow never updates or deletes rows.
// Corresponds to the 'client_interactions' table.
type Interaction struct {
	ID               string // uuid
	RequestID        int64  // Foreign key to booking_requests.id
	Method           booking.ResponseMethod
	Notes            string
	Metadata         map[string]string
	IsFollowUp       bool
	IsClientResponse bool
	CreatedAt        time.Time
}
