package messageq

import (
	"fmt"
	"unsafe"
)

// Of is a message queue whose slots are the elements of a caller-owned
// slice. The zero value is unusable; call [Of.Init].
type Of[T any] struct {
	ring
	storage []T
}

// Init uses storage as the queue's slots and empties the queue.
func (q *Of[T]) Init(storage []T) error {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return fmt.Errorf("%w: %T has size zero", ErrSlotSize, zero)
	}
	if err := q.ring.init(len(storage)); err != nil {
		return err
	}
	q.storage = storage
	return nil
}

// Cap returns the number of slots.
func (q *Of[T]) Cap() int { return int(q.n) }

func (q *Of[T]) index(msg *T) int {
	size := unsafe.Sizeof(*msg)
	off := uintptr(unsafe.Pointer(msg)) - uintptr(unsafe.Pointer(unsafe.SliceData(q.storage)))
	if msg == nil || off%size != 0 || off >= uintptr(q.n)*size {
		panic("messageq: message is not a slot of this queue")
	}
	return int(off / size)
}

// Claim takes a free slot and returns it, or returns nil if every slot is
// in use.
func (q *Of[T]) Claim() *T {
	idx, ok := q.claimSlot()
	if !ok {
		return nil
	}
	return &q.storage[idx]
}

// Send publishes a slot returned by Claim.
func (q *Of[T]) Send(msg *T) {
	q.send(q.index(msg))
}

// Empty reports whether there is no message to receive.
func (q *Of[T]) Empty() bool {
	return q.empty()
}

// Receive returns the oldest message without removing it, or nil if the
// queue is empty.
func (q *Of[T]) Receive() *T {
	idx, ok := q.receiveSlot()
	if !ok {
		return nil
	}
	return &q.storage[idx]
}

// Release returns the received message's slot to the free pool.
func (q *Of[T]) Release(msg *T) {
	q.release(q.index(msg))
}
