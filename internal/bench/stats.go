package bench

import "math"

// Stats accumulates the minimum, mean and maximum of a series of samples.
type Stats struct {
	Count int
	Min   uint32
	Max   uint32
	Sum   uint64
}

// Add records one sample.
func (s *Stats) Add(v uint32) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Sum += uint64(v)
	s.Count++
}

// Mean returns the mean sample, rounded down, or 0 without samples.
func (s *Stats) Mean() uint32 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Sum / uint64(s.Count)
	if mean > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(mean)
}
