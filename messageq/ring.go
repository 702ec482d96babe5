package messageq

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// MaxSlots is the largest number of slots a queue can hold.
const MaxSlots = 32

var (
	ErrSlotSize = errors.New("messageq: invalid slot size")
	ErrCapacity = errors.New("messageq: capacity must be between 1 and 32 slots")
)

// ring is the atomic core shared by Queue and Of. It hands out slot
// indexes; the wrappers map them to storage.
type ring struct {
	n uint32

	free  atomic.Uint32
	claim atomic.Uint32
	full  atomic.Uint32

	// consumer only
	receive uint32
}

func (r *ring) init(n int) error {
	if n < 1 || n > MaxSlots {
		return fmt.Errorf("%w: got %d", ErrCapacity, n)
	}
	r.n = uint32(n)
	r.free.Store(uint32(n))
	r.claim.Store(0)
	r.full.Store(0)
	r.receive = 0
	return nil
}

func (r *ring) claimSlot() (int, bool) {
	for {
		free := r.free.Load()
		if free == 0 {
			return 0, false
		}
		if r.free.CompareAndSwap(free, free-1) {
			break
		}
	}
	for {
		idx := r.claim.Load()
		next := idx + 1
		if next == r.n {
			next = 0
		}
		if r.claim.CompareAndSwap(idx, next) {
			return int(idx), true
		}
	}
}

func (r *ring) send(idx int) {
	if prev := r.full.Or(1 << idx); prev&(1<<idx) != 0 {
		panic(fmt.Sprintf("messageq: slot %d sent twice", idx))
	}
}

func (r *ring) empty() bool {
	return r.full.Load()&(1<<r.receive) == 0
}

func (r *ring) receiveSlot() (int, bool) {
	if r.empty() {
		return 0, false
	}
	return int(r.receive), true
}

func (r *ring) release(idx int) {
	if uint32(idx) != r.receive || r.empty() {
		panic(fmt.Sprintf("messageq: released slot %d but slot %d is being received", idx, r.receive))
	}
	r.full.And(^uint32(1 << idx))
	r.receive++
	if r.receive == r.n {
		r.receive = 0
	}
	r.free.Add(1)
}

// free and full counts, for tests and statistics. The values are a
// snapshot and may be stale by the time they are used.
func (r *ring) counts() (free, full int) {
	free = int(r.free.Load())
	bits := r.full.Load()
	for bits != 0 {
		bits &= bits - 1
		full++
	}
	return free, full
}
