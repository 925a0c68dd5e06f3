package followup

import (
	"strings"
	"testing"
	"time"

	"dj_booking_service/internal/domain/booking"
)

func quotedRequest(t *testing.T, count int) *booking.Request {
	t.Helper()
	return &booking.Request{
		ID:            1,
		ClientName:    "Alex Rivera",
		ClientEmail:   "alex@example.com",
		EventDate:     time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		Status:        booking.StatusQuoted,
		FollowUpCount: count,
	}
}

func TestShouldSend(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*booking.Request)
		want   bool
	}{
		{"quoted and unresponded", func(r *booking.Request) {}, true},
		{"client responded", func(r *booking.Request) { r.HasResponded = true }, false},
		{"status new", func(r *booking.Request) { r.Status = booking.StatusNew }, false},
		{"status booked", func(r *booking.Request) { r.Status = booking.StatusBooked }, false},
		{"status cancelled", func(r *booking.Request) { r.Status = booking.StatusCancelled }, false},
		{"at the cap", func(r *booking.Request) { r.FollowUpCount = 3 }, false},
		{"over the cap", func(r *booking.Request) { r.FollowUpCount = 7 }, false},
		{"just under the cap", func(r *booking.Request) { r.FollowUpCount = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := quotedRequest(t, 1)
			tt.mutate(req)
			if got := ShouldSend(req); got != tt.want {
				t.Errorf("ShouldSend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "Following up on your booking quote"},
		{2, "Did you receive our DJ booking quote?"},
		{3, "Final follow-up: Your DJ booking quote"},
		{0, "Your DJ booking quote"},
		{4, "Your DJ booking quote"},
	}
	for _, tt := range tests {
		if got := SubjectFor(tt.n); got != tt.want {
			t.Errorf("SubjectFor(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestBodyForInterpolatesClientName(t *testing.T) {
	req := quotedRequest(t, 1)
	for n := 1; n <= 3; n++ {
		body := BodyFor(req, n)
		if !strings.Contains(body, "Alex Rivera") {
			t.Errorf("BodyFor(req, %d) does not mention the client name", n)
		}
	}
}

func TestBodyForFinalNotice(t *testing.T) {
	req := quotedRequest(t, 3)
	body := BodyFor(req, 3)
	if !strings.Contains(body, "reserved pending confirmation") {
		t.Errorf("final follow-up body must state the date is reserved pending confirmation, got:\n%s", body)
	}
}

func TestNextDelayDays(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 3},
		{2, 5},
		{3, 0}, // workflow ends, no further delay
		{0, 0},
	}
	for _, tt := range tests {
		if got := NextDelayDays(tt.n); got != tt.want {
			t.Errorf("NextDelayDays(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
