package clock

import "time"

// Clock abstracts current-time lookup so services can be driven at
// arbitrary times in tests instead of depending on the wall clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewSystem returns a Clock backed by the wall clock.
func NewSystem() Clock { return systemClock{} }
