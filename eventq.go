package fibre

import "github.com/kmrgirish/fibre/messageq"

// An EventQueue is a fibre with a queue of events of type T. Sending an
// event wakes the fibre, which drains the queue from its task.
type EventQueue[T any] struct {
	Fibre
	q     messageq.Of[T]
	sched *Scheduler
}

// Init prepares the fibre to run fn on s and uses storage for the event
// slots.
func (e *EventQueue[T]) Init(s *Scheduler, fn Entrypoint, storage []T) error {
	if err := e.q.Init(storage); err != nil {
		return err
	}
	e.Fibre.Init(fn)
	e.sched = s
	return nil
}

// Claim returns a free event slot, or nil if the queue is full. Safe from
// any goroutine.
func (e *EventQueue[T]) Claim() *T {
	return e.q.Claim()
}

// Send publishes a claimed event and wakes the fibre. It reports whether
// this send woke the fibre. Safe from any goroutine.
func (e *EventQueue[T]) Send(evt *T) bool {
	e.q.Send(evt)
	return e.sched.RunAtomic(&e.Fibre)
}

// Empty reports whether there are no events to receive.
func (e *EventQueue[T]) Empty() bool {
	return e.q.Empty()
}

// Receive returns the oldest event without removing it, or nil.
func (e *EventQueue[T]) Receive() *T {
	return e.q.Receive()
}

// Release frees a received event's slot.
func (e *EventQueue[T]) Release(evt *T) {
	e.q.Release(evt)
}
