package messageq

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInitErrors(t *testing.T) {
	var q Queue
	if err := q.Init(make([]byte, 16), 0); !errors.Is(err, ErrSlotSize) {
		t.Errorf("expected ErrSlotSize, got %v", err)
	}
	if err := q.Init(make([]byte, 3), 4); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	if err := q.Init(make([]byte, 33), 1); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	if err := q.Init(make([]byte, 32), 1); err != nil {
		t.Errorf("expected 32 slots to fit, got %v", err)
	}

	var empty Of[struct{}]
	if err := empty.Init(make([]struct{}, 4)); !errors.Is(err, ErrSlotSize) {
		t.Errorf("expected ErrSlotSize, got %v", err)
	}
	var none Of[int]
	if err := none.Init(nil); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
}

func TestCapacity(t *testing.T) {
	var q Queue
	buf := make([]byte, 4*8+3)
	if err := q.Init(buf, 8); err != nil {
		t.Fatal(err)
	}
	if q.Cap() != 4 {
		t.Fatalf("expected 4 slots, got %d", q.Cap())
	}

	for i := 0; i < 4; i++ {
		msg := q.Claim()
		if msg == nil {
			t.Fatalf("claim %d failed", i)
		}
		if len(msg) != 8 || cap(msg) != 8 {
			t.Fatalf("expected 8 byte slot, got len %d cap %d", len(msg), cap(msg))
		}
		q.Send(msg)
	}
	if msg := q.Claim(); msg != nil {
		t.Fatal("expected claim on full queue to fail")
	}

	q.Release(q.Receive())
	if msg := q.Claim(); msg == nil {
		t.Fatal("expected claim after release to succeed")
	}
	if msg := q.Claim(); msg != nil {
		t.Fatal("expected exactly one claim after release")
	}
}

func TestFIFO(t *testing.T) {
	var q Queue
	buf := make([]byte, 3*4)
	if err := q.Init(buf, 4); err != nil {
		t.Fatal(err)
	}

	var got []uint32
	next := uint32(0)
	// run around the ring a few times
	for round := 0; round < 5; round++ {
		for i := 0; i < 2; i++ {
			msg := q.Claim()
			binary.LittleEndian.PutUint32(msg, next)
			next++
			q.Send(msg)
		}
		for !q.Empty() {
			msg := q.Receive()
			got = append(got, binary.LittleEndian.Uint32(msg))
			q.Release(msg)
		}
	}

	var want []uint32
	for i := uint32(0); i < next; i++ {
		want = append(want, i)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestZeroCopy(t *testing.T) {
	var q Queue
	buf := make([]byte, 2*4)
	if err := q.Init(buf, 4); err != nil {
		t.Fatal(err)
	}
	msg := q.Claim()
	copy(msg, "ping")
	if string(buf[:4]) != "ping" {
		t.Errorf("expected claimed slot to alias the buffer, got %q", buf[:4])
	}
	q.Send(msg)

	recv := q.Receive()
	if &recv[0] != &buf[0] {
		t.Error("expected received slot to alias the buffer")
	}
	if again := q.Receive(); &again[0] != &recv[0] {
		t.Error("expected receive without release to return the same slot")
	}
}

func TestUnsentSlotHoldsBackDelivery(t *testing.T) {
	var q Of[int]
	if err := q.Init(make([]int, 4)); err != nil {
		t.Fatal(err)
	}
	first := q.Claim()
	second := q.Claim()
	*second = 2
	q.Send(second)
	if !q.Empty() {
		t.Fatal("expected queue to look empty until the first claim is sent")
	}
	*first = 1
	q.Send(first)

	var got []int
	for !q.Empty() {
		msg := q.Receive()
		got = append(got, *msg)
		q.Release(msg)
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fn()
}

func TestMisuse(t *testing.T) {
	var q Of[int64]
	if err := q.Init(make([]int64, 4)); err != nil {
		t.Fatal(err)
	}
	var stray int64
	expectPanic(t, func() { q.Send(&stray) })

	msg := q.Claim()
	q.Send(msg)
	expectPanic(t, func() { q.Send(msg) })

	other := q.Claim()
	q.Send(other)
	expectPanic(t, func() { q.Release(other) })

	q.Release(q.Receive())
	q.Release(q.Receive())
	expectPanic(t, func() { q.Release(msg) })

	var b Queue
	buf := make([]byte, 16)
	if err := b.Init(buf, 4); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, func() { b.Send(buf[2:6]) })
}
