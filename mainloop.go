package fibre

import (
	"context"
	"errors"
)

// ErrIdle is returned by [Scheduler.MainLoop] when the clock finds that
// nothing can ever run again.
var ErrIdle = errors.New("fibre: scheduler idle")

// A Clock supplies the time to a main loop and idles it between calls to
// [Scheduler.Next].
type Clock interface {
	// Now returns the current time.
	Now() uint32
	// Sleep returns once the time reaches until, wake receives, or ctx is
	// done.
	Sleep(ctx context.Context, until uint32, wake <-chan struct{}) error
}

// MainLoop calls Next until ctx is done or clock.Sleep fails, sleeping
// whenever no fibre is runnable.
func (s *Scheduler) MainLoop(ctx context.Context, clock Clock) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := clock.Now()
		next := s.Next(now)
		if next == now {
			continue
		}
		if err := clock.Sleep(ctx, next, s.wake); err != nil {
			return err
		}
	}
}

// A SimClock is a virtual clock for tests and simulations. Sleeping jumps
// the time forward to the wake time instead of waiting, so a program that
// sleeps for hours finishes immediately. The zero value starts at time 0.
type SimClock struct {
	now uint32
}

// NewSimClock returns a SimClock starting at start.
func NewSimClock(start uint32) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() uint32 {
	return c.now
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d uint32) {
	c.now += d
}

// Sleep jumps to until. When until is an unbounded sleep only a pending
// wake can make progress; without one Sleep returns ErrIdle.
func (c *SimClock) Sleep(ctx context.Context, until uint32, wake <-chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if until-c.now == UnboundedSleep {
		select {
		case <-wake:
			return nil
		default:
			return ErrIdle
		}
	}
	if AtOrAfter(until, c.now) {
		c.now = until
	}
	return nil
}
