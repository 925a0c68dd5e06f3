// internal/domain/followup/policy.go
package followup

import (
	"fmt"

	"dj_booking_service/internal/domain/booking"
)

// MaxFollowUps is the hard cap on automated follow-up emails per request.
// No 4th email is ever sent.
const MaxFollowUps = 3

// DefaultFirstDelayDays is the cadence for the very first follow-up after a
// quote goes out with no explicit date chosen.
const DefaultFirstDelayDays = 3

// delayDays maps follow-up number -> days to wait before the next one.
// A fixed lookup table, not a computed backoff: after #1 wait 3 days, after
// #2 wait 5 days, after #3 the workflow ends.
var delayDays = map[int]int{
	1: 3,
	2: 5,
}

// ShouldSend decides whether an automated follow-up email may go out for
// req right now. Pure function, no I/O.
func ShouldSend(req *booking.Request) bool {
	if req.HasResponded {
		return false
	}
	if req.Status != booking.StatusQuoted {
		return false
	}
	if req.FollowUpCount >= MaxFollowUps {
		return false
	}
	return true
}

// SubjectFor returns the email subject for the n-th follow-up (1-indexed).
// Only 1..3 occur given the MaxFollowUps gate; the default exists for
// completeness.
func SubjectFor(n int) string {
	switch n {
	case 1:
		return "Following up on your booking quote"
	case 2:
		return "Did you receive our DJ booking quote?"
	case 3:
		return "Final follow-up: Your DJ booking quote"
	default:
		return "Your DJ booking quote"
	}
}

// BodyFor renders the plain-text body of the n-th follow-up email for req.
// The #3 body carries the final-notice wording: the event date is only held
// pending confirmation.
func BodyFor(req *booking.Request, n int) string {
	name := req.ClientName
	eventDate := req.EventDate.Format("Monday, 2 January 2006")

	switch n {
	case 1:
		return fmt.Sprintf(
			"Hi %s,\n\nJust checking in on the DJ booking quote we sent over for your event on %s. "+
				"If you have any questions, or would like to tweak anything, just reply to this email.\n\n"+
				"Best regards,\nThe Bookings Team",
			name, eventDate)
	case 2:
		return fmt.Sprintf(
			"Hi %s,\n\nWe wanted to make sure our quote for your event on %s reached you. "+
				"We'd love to hear your thoughts, and we're happy to adjust the package if needed.\n\n"+
				"Best regards,\nThe Bookings Team",
			name, eventDate)
	case 3:
		return fmt.Sprintf(
			"Hi %s,\n\nThis is our final follow-up regarding the DJ booking quote for %s. "+
				"Your date is currently reserved pending confirmation, but we can't hold it indefinitely. "+
				"Please let us know either way so we can plan accordingly.\n\n"+
				"Best regards,\nThe Bookings Team",
			name, eventDate)
	default:
		return fmt.Sprintf(
			"Hi %s,\n\nA quick note about the DJ booking quote for your event on %s. "+
				"Reply to this email if you'd like to talk it through.\n\n"+
				"Best regards,\nThe Bookings Team",
			name, eventDate)
	}
}

// NextDelayDays returns how many days to wait after the n-th follow-up
// before the next one is due. Returns 0 when no further follow-up is
// planned.
func NextDelayDays(n int) int {
	return delayDays[n]
}
