package providers

import "time"

// Clock supplies the reference date for relative date resolution. Injected so
// the pipeline is deterministic under test.
type Clock interface {
	// Today returns the current date. Implementations should truncate to
	// midnight in the relevant location.
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Today returns today's date at midnight local time.
func (SystemClock) Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// FixedClock always reports the same date.
type FixedClock struct {
	Date time.Time
}

// Today returns the fixed date.
func (c FixedClock) Today() time.Time {
	return c.Date
}
