package dj

import (
	"database/sql"
	"time"
)

// DJ represents a DJ on the agency roster.
type DJ struct {
	ID        int64
	Name      string
	Email     string
	Genres    sql.NullString // Comma-separated, free-form
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityStatus is the state of one calendar day for a DJ.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "AVAILABLE"
	StatusBooked      AvailabilityStatus = "BOOKED"
	StatusUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// Availability is a single (dj, day) calendar entry.
type Availability struct {
	ID        int64
	DJID      int64
	Day       time.Time // date-only
	Status    AvailabilityStatus
	CreatedAt time.Time
}
