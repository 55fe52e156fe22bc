package metrics

import (
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing value safe for concurrent use.
type Counter struct {
	v atomic.Uint64
}

func (c *Counter) Inc() { c.v.Add(1) }

func (c *Counter) Add(n uint64) { c.v.Add(n) }

func (c *Counter) Load() uint64 { return c.v.Load() }

// Stopwatch measures elapsed time against an injectable clock.
type Stopwatch struct {
	start time.Time
	now   func() time.Time
}

func Start(now func() time.Time) Stopwatch {
	if now == nil {
		now = time.Now
	}
	return Stopwatch{start: now(), now: now}
}

func (s Stopwatch) Elapsed() time.Duration {
	return s.now().Sub(s.start)
}
