package dj

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving DJ
// roster entries and their calendar availability.
type Repository interface {
	Create(ctx context.Context, d *DJ) error
	GetByID(ctx context.Context, id int64) (*DJ, error)
	GetByEmail(ctx context.Context, email string) (*DJ, error)
	Update(ctx context.Context, d *DJ) error
	ListActive(ctx context.Context) ([]*DJ, error)
	ListAll(ctx context.Context) ([]*DJ, error)

	// SetAvailability upserts the entry for (a.DJID, a.Day).
	SetAvailability(ctx context.Context, a *Availability) error
	ListAvailability(ctx context.Context, djID int64, from, to time.Time) ([]*Availability, error)
}
