package common

import "time"

// Clock is the time seam used by the engine services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

var SystemClock Clock = systemClock{}

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
