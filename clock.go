package fibre

import (
	"context"
	"time"
)

// A MonotonicClock counts microseconds of a monotonic system clock in a
// wrapping uint32, so it wraps roughly every 71 minutes.
type MonotonicClock struct{}

func (MonotonicClock) Now() uint32 {
	return monotonicMicros()
}

// Sleep waits in real time.
func (c MonotonicClock) Sleep(ctx context.Context, until uint32, wake <-chan struct{}) error {
	d := int32(until - c.Now())
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(d) * time.Microsecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wake:
	case <-timer.C:
	}
	return nil
}
