// Package platform supplies the system's tick and delay primitives
// (get_tick_ms, get_tick_us, delay_ms, delay_us) behind a narrow
// interface, backed by github.com/benbjohnson/clock so tests can inject a
// mock clock instead of waiting on wall time.
package platform

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the platform time contract consumed by the scheduler:
// monotonic millisecond/microsecond ticks, plus blocking delays used only
// during boot before the scheduler is active.
type Clock interface {
	TickMs() uint32
	TickUs() uint32
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// realClock wraps a benbjohnson/clock.Clock (real or mock) and reduces it
// to wrap-aware uint32 ticks.
type realClock struct {
	c     clock.Clock
	epoch time.Time
}

// NewSystemClock returns a Clock backed by the real wall clock.
func NewSystemClock() Clock {
	c := clock.New()
	return &realClock{c: c, epoch: c.Now()}
}

// NewMockClock returns a Clock backed by a benbjohnson/clock.Mock, along
// with the underlying mock so tests can advance it deterministically,
// e.g. to verify a sleeping task wakes at an exact tick.
func NewMockClock() (Clock, *clock.Mock) {
	m := clock.NewMock()
	return &realClock{c: m, epoch: m.Now()}, m
}

func (r *realClock) TickMs() uint32 {
	return uint32(r.c.Now().Sub(r.epoch).Milliseconds())
}

func (r *realClock) TickUs() uint32 {
	return uint32(r.c.Now().Sub(r.epoch).Microseconds())
}

func (r *realClock) DelayMs(ms uint32) {
	r.c.Sleep(time.Duration(ms) * time.Millisecond)
}

func (r *realClock) DelayUs(us uint32) {
	r.c.Sleep(time.Duration(us) * time.Microsecond)
}
