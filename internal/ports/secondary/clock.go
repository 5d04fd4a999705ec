package secondary

import "time"

// Clock abstracts the time source so deadline, recovery and monthly-release
// logic is testable with fixed timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
