package messageq

import (
	"fmt"
	"unsafe"
)

// Queue is a message queue over a byte buffer divided into equally sized
// slots. The zero value is unusable; call [Queue.Init].
type Queue struct {
	ring
	buf     []byte
	slotLen int
}

// Init divides buf into slots of slotLen bytes and empties the queue. Any
// tail of buf shorter than a slot is unused.
func (q *Queue) Init(buf []byte, slotLen int) error {
	if slotLen <= 0 {
		return fmt.Errorf("%w: %d bytes", ErrSlotSize, slotLen)
	}
	if err := q.ring.init(len(buf) / slotLen); err != nil {
		return err
	}
	q.buf = buf
	q.slotLen = slotLen
	return nil
}

// Cap returns the number of slots.
func (q *Queue) Cap() int { return int(q.n) }

// SlotLen returns the size of a slot in bytes.
func (q *Queue) SlotLen() int { return q.slotLen }

func (q *Queue) slot(idx int) []byte {
	start := idx * q.slotLen
	end := start + q.slotLen
	return q.buf[start:end:end]
}

func (q *Queue) index(msg []byte) int {
	off := uintptr(unsafe.Pointer(unsafe.SliceData(msg))) - uintptr(unsafe.Pointer(unsafe.SliceData(q.buf)))
	if len(msg) == 0 || off%uintptr(q.slotLen) != 0 || off >= uintptr(q.n)*uintptr(q.slotLen) {
		panic("messageq: message is not a slot of this queue")
	}
	return int(off / uintptr(q.slotLen))
}

// Claim takes a free slot and returns it, or returns nil if every slot is
// in use. The slot is not visible to the consumer until it is sent.
func (q *Queue) Claim() []byte {
	idx, ok := q.claimSlot()
	if !ok {
		return nil
	}
	return q.slot(idx)
}

// Send publishes a slot returned by Claim.
func (q *Queue) Send(msg []byte) {
	q.send(q.index(msg))
}

// Empty reports whether there is no message to receive.
func (q *Queue) Empty() bool {
	return q.empty()
}

// Receive returns the oldest message without removing it, or nil if the
// queue is empty. Calling Receive again before Release returns the same
// slot.
func (q *Queue) Receive() []byte {
	idx, ok := q.receiveSlot()
	if !ok {
		return nil
	}
	return q.slot(idx)
}

// Release returns the received message's slot to the free pool. It must be
// called exactly once per message, after the consumer is done reading it.
func (q *Queue) Release(msg []byte) {
	q.release(q.index(msg))
}
