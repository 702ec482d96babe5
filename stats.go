package fibre

// Stats counts scheduler events since the scheduler was created.
type Stats struct {
	Dispatches  uint64
	Yields      uint64
	Waits       uint64
	Exits       uint64
	Failures    uint64
	Corruptions uint64
	Expirations uint64
	AtomicWakes uint64

	// current queue lengths
	Ready    int
	Sleeping int
}

// Stats returns a snapshot of the scheduler's counters. It must be called
// from the mainline.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	st.AtomicWakes = s.atomicWakes.Load()
	st.Ready = s.ready.Len()
	st.Sleeping = s.sleeping.Len()
	return st
}
