package clock

import "time"

// Clock is the source of wall time for the service layer. The game engine
// itself never reads it; drivers turn clock readings into elapsed durations.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed on c since t
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}
