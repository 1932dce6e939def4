package device

import "time"

// Clock provides milliseconds from an arbitrary monotonic origin. A
// test double stands in for the hardware timer.
type Clock interface {
	NowMS() uint32
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock creates a Clock counting from now.
func NewMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) NowMS() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
