package fibre

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/kmrgirish/fibre/internal/dettrace"
	"github.com/kmrgirish/fibre/internal/ilist"
	"github.com/kmrgirish/fibre/pt"
)

// Config configures a [Scheduler].
type Config struct {
	// Logger receives scheduler events. Nil discards them.
	Logger *slog.Logger
	// Checksum enables the dispatch trace digest returned by
	// [Scheduler.Checksum].
	Checksum bool
}

// A Scheduler dispatches fibres. Next, Run and Kill must all be called from
// the same goroutine; RunAtomic may be called from any goroutine.
type Scheduler struct {
	ready    ilist.List[*Fibre]
	sleeping ilist.List[*Fibre]

	// interrupt-side wakes, newest first
	pending atomic.Pointer[Fibre]
	wake    chan struct{}

	current atomic.Pointer[Fibre]
	now     uint32
	tick    atomic.Uint64
	nextID  int

	logger *slog.Logger
	trace  *dettrace.Recorder

	stats       Stats
	atomicWakes atomic.Uint64
}

// NewScheduler returns an empty scheduler.
func NewScheduler(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Scheduler{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
	s.ready.Init(fibreLink)
	s.sleeping.Init(fibreLink)
	if cfg.Checksum {
		s.trace = dettrace.New(logger)
	}
	return s
}

// SetLogger replaces the scheduler's logger. It is meant for loggers that
// stamp records with the scheduler's own state and so can only be built
// after it.
func (s *Scheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
	s.trace.SetLogger(logger)
}

// Self returns the fibre being dispatched, or nil outside a dispatch.
func (s *Scheduler) Self() *Fibre {
	return s.current.Load()
}

// Now returns the time passed to the latest call to Next.
func (s *Scheduler) Now() uint32 {
	return s.now
}

// Tick returns the number of calls to Next so far.
func (s *Scheduler) Tick() uint64 {
	return s.tick.Load()
}

// Dispatching returns the name of the fibre being dispatched, or "" if
// there is none.
func (s *Scheduler) Dispatching() string {
	if f := s.current.Load(); f != nil {
		return f.String()
	}
	return ""
}

// Wake returns a channel that receives a value after RunAtomic made a fibre
// runnable. A main loop idling until its next call to Next selects on it.
func (s *Scheduler) Wake() <-chan struct{} {
	return s.wake
}

// Checksum returns the digest of every scheduling decision so far, or nil
// if the scheduler was not configured with Checksum.
func (s *Scheduler) Checksum() []byte {
	return s.trace.Sum()
}

func (s *Scheduler) bind(f *Fibre) {
	if f.fn == nil {
		panic("fibre: use of uninitialised fibre")
	}
	if f.id == 0 {
		s.nextID++
		f.id = s.nextID
	}
	f.sched = s
}

func dueBefore(a, b *Fibre) bool {
	return Before(a.due, b.due)
}

// Run makes f runnable. Running an exited or already runnable fibre does
// nothing. A sleeping fibre is woken early, and a fibre that runs itself
// is queued again when it next waits.
func (s *Scheduler) Run(f *Fibre) {
	s.bind(f)
	for {
		switch st := f.state.Load(); st {
		case uint32(Idle):
			if !f.state.CompareAndSwap(st, uint32(Runnable)) {
				continue
			}
		case uint32(TimerWaiting):
			if !f.state.CompareAndSwap(st, uint32(Runnable)) {
				continue
			}
			s.sleeping.Remove(f)
		case uint32(Running):
			if !f.state.CompareAndSwap(st, stateRunningWoken) {
				continue
			}
			return
		default:
			return
		}
		s.ready.PushBack(f)
		s.trace.Record(dettrace.KeyRun, uint64(f.id), uint64(s.now))
		return
	}
}

// RunAtomic makes f runnable and may be called from any goroutine. It
// reports whether this call woke f: true if f was idle, sleeping or
// running, false if f was already runnable or has exited.
func (s *Scheduler) RunAtomic(f *Fibre) bool {
	for {
		switch st := f.state.Load(); st {
		case uint32(Idle), uint32(TimerWaiting):
			if !f.state.CompareAndSwap(st, uint32(Runnable)) {
				continue
			}
			s.push(f)
		case uint32(Running):
			if !f.state.CompareAndSwap(st, stateRunningWoken) {
				continue
			}
		default:
			return false
		}
		s.atomicWakes.Add(1)
		select {
		case s.wake <- struct{}{}:
		default:
		}
		return true
	}
}

// Kill removes f from the scheduler without running it again and marks it
// Exited. It reports whether f was queued to run or sleeping. A fibre
// cannot kill itself.
func (s *Scheduler) Kill(f *Fibre) bool {
	if s.current.Load() == f {
		panic(fmt.Sprintf("fibre: %s killed itself", f))
	}
	// fold in wakes so f's pending entry is gone before it can be reused
	s.drain()
	queued := s.ready.Remove(f) || s.sleeping.Remove(f)
	prev := State(f.state.Swap(uint32(Exited)))
	s.trace.Record(dettrace.KeyKill, uint64(f.id), uint64(prev))
	if s.logger.Enabled(context.TODO(), slog.LevelDebug) {
		s.logger.LogAttrs(context.TODO(), slog.LevelDebug, "killed fibre",
			slog.String("target", f.String()),
			slog.String("was", prev.String()),
			slog.Bool("queued", queued))
	}
	return queued
}

// Next promotes sleeping fibres whose wake time is at or before now,
// dispatches at most one runnable fibre and returns the time at which Next
// should be called again: now if more fibres are runnable, else the
// earliest wake time, else now+UnboundedSleep.
func (s *Scheduler) Next(now uint32) uint32 {
	if f := s.current.Load(); f != nil {
		panic(fmt.Sprintf("fibre: Next called while dispatching %s", f))
	}
	s.now = now
	s.tick.Add(1)

	s.drain()
	s.expire(now)
	if f, ok := s.ready.PopFront(); ok {
		s.dispatch(f)
	}

	if !s.ready.Empty() || s.pending.Load() != nil {
		return now
	}
	if f, ok := s.sleeping.Front(); ok {
		return f.due
	}
	return now + UnboundedSleep
}

func (s *Scheduler) expire(now uint32) {
	for {
		f, ok := s.sleeping.Front()
		if !ok || Before(now, f.due) {
			return
		}
		s.sleeping.Remove(f)
		// loses only to a RunAtomic, which leaves f Runnable
		f.state.CompareAndSwap(uint32(TimerWaiting), uint32(Runnable))
		s.ready.PushBack(f)
		s.stats.Expirations++
		s.trace.Record(dettrace.KeyExpire, uint64(f.id), uint64(f.due))
	}
}

func (s *Scheduler) dispatch(f *Fibre) {
	if !f.state.CompareAndSwap(uint32(Runnable), uint32(Running)) {
		panic(fmt.Sprintf("fibre: dispatch of %s in state %s", f, f.State()))
	}
	s.bind(f)
	f.dueSet = false
	s.stats.Dispatches++
	s.trace.Record(dettrace.KeyDispatch, uint64(f.id), uint64(s.now))

	s.current.Store(f)
	status := f.fn(f)
	s.current.Store(nil)

	s.trace.Record(dettrace.KeyResult, uint64(f.id), uint64(status))
	if s.logger.Enabled(context.TODO(), slog.LevelDebug) {
		s.logger.LogAttrs(context.TODO(), slog.LevelDebug, "dispatched",
			slog.String("target", f.String()),
			slog.String("status", status.String()))
	}

	switch status {
	case pt.Yielded:
		s.stats.Yields++
		f.state.Store(uint32(Runnable))
		s.ready.PushBack(f)

	case pt.Waiting:
		s.stats.Waits++
		if f.dueSet {
			if f.state.CompareAndSwap(uint32(Running), uint32(TimerWaiting)) {
				s.sleeping.InsertSorted(f, dueBefore)
				return
			}
		} else if f.state.CompareAndSwap(uint32(Running), uint32(Idle)) {
			return
		}
		// woken while running
		f.state.Store(uint32(Runnable))
		s.ready.PushBack(f)

	case pt.Exited:
		s.stats.Exits++
		f.state.Store(uint32(Exited))

	case pt.Failed:
		s.stats.Failures++
		f.state.Store(uint32(Exited))
		s.logger.LogAttrs(context.TODO(), slog.LevelWarn, "fibre failed",
			slog.String("target", f.String()))

	default:
		s.stats.Corruptions++
		f.state.Store(uint32(Exited))
		s.logger.LogAttrs(context.TODO(), slog.LevelError, "fibre corrupted",
			slog.String("target", f.String()),
			slog.String("status", status.String()),
			slog.Int("token", int(f.tok)))
	}
}
