// internal/domain/interaction/repository.go
package interaction

import (
	"context"
	"time"
)

// Repository defines the operations for the append-only interaction log.
type Repository interface {
	Create(ctx context.Context, in *Interaction) error
	ListByRequest(ctx context.Context, requestID int64) ([]*Interaction, error)

	// ListManualReminders returns follow-up reminders logged for manual
	// handling since the given time, newest first. This feeds the admin
	// dashboard of requests waiting on a human.
	ListManualReminders(ctx context.Context, since time.Time) ([]*Interaction, error)
}
