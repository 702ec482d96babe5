package fibre

import "github.com/kmrgirish/fibre/internal/dettrace"

// push adds f to the pending stack unless it is already there. Safe from
// any goroutine.
func (s *Scheduler) push(f *Fibre) {
	if !f.pending.CompareAndSwap(false, true) {
		return
	}
	for {
		head := s.pending.Load()
		f.pendingNext = head
		if s.pending.CompareAndSwap(head, f) {
			return
		}
	}
}

// drain moves every pending fibre that is still runnable to the ready
// queue, in the order they were pushed.
func (s *Scheduler) drain() {
	head := s.pending.Swap(nil)
	if head == nil {
		return
	}

	var fifo *Fibre
	for head != nil {
		next := head.pendingNext
		head.pendingNext = fifo
		fifo = head
		head = next
	}

	for f := fifo; f != nil; {
		next := f.pendingNext
		f.pendingNext = nil
		f.pending.Store(false)

		if f.State() == Runnable && !f.link.On(&s.ready) {
			s.sleeping.Remove(f)
			s.bind(f)
			s.ready.PushBack(f)
			s.trace.Record(dettrace.KeyWake, uint64(f.id), uint64(s.now))
		}
		f = next
	}
}
