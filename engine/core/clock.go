package core

import "time"

// Clock measures elapsed wall time. A zero start time means the clock is stopped.
type Clock struct {
	startTime time.Time
	elapsed   time.Duration
	now       func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = c.now().Sub(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// TicDuration returns the length of a single simulation step at the given rate.
// A rate of zero means "as fast as possible" and yields zero.
func TicDuration(ticRate uint32) time.Duration {
	if ticRate == 0 {
		return 0
	}
	return time.Second / time.Duration(ticRate)
}
