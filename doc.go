/*
Package fibre implements a cooperative scheduler for stackless tasks.

A [Fibre] wraps one resumable task, usually a [pt.Program] bound with
[Task]. A [Scheduler] keeps a FIFO of runnable fibres and a set of fibres
sleeping until a deadline. Every call to [Scheduler.Next] dispatches at most
one fibre and returns the time at which Next should be called again:

	for {
		now := clock.Now()
		next := s.Next(now)
		sleepUntil(next)
	}

[Scheduler.MainLoop] is a ready-made version of this loop.

# Time

Time is a wrapping uint32 counter in whatever unit the caller chooses. Two
times are compared by the sign of their difference ([AtOrAfter], [Before]),
so ordering stays correct across a wrap as long as the times being compared
are less than half the range apart. A scheduler with nothing to do asks to
be called again [UnboundedSleep] from now.

# Waking fibres

A fibre runs when it is made runnable with [Scheduler.Run], from code
running on the scheduler's goroutine, or with [Scheduler.RunAtomic], which is
safe from any goroutine. A fibre can also sleep until a deadline by waiting
on [Fibre.Timeout]:

	pt.WaitUntil(func(b *blinker) bool {
		return b.fibre.Timeout(b.due)
	})

An [EventQueue] combines a fibre with a [messageq.Of] queue; sending a
message wakes the fibre.

# Concurrency

Next, Run and Kill belong to a single goroutine, called the mainline, and
task bodies only ever run there. RunAtomic and the producer side of an
EventQueue may be called from any goroutine, standing in for interrupt
handlers on a microcontroller. They only touch atomics.
*/
package fibre
