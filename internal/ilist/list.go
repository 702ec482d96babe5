// Package ilist implements intrusive doubly linked lists.
//
// An element embeds an [Entry] and a list is told how to find it with an
// accessor function, so linking an element never allocates. An element is on
// at most one list per entry at a time.
package ilist

import (
	"fmt"
	"iter"
)

// Entry links an element into a [List]. The zero value is unlinked.
type Entry[T any] struct {
	next, prev *Entry[T]
	owner      *List[T]
	value      T
}

// Linked reports whether the entry is on a list.
func (e *Entry[T]) Linked() bool {
	return e.owner != nil
}

// On reports whether the entry is on l.
func (e *Entry[T]) On(l *List[T]) bool {
	return e.owner == l
}

// List is an intrusive doubly linked list of T. The zero value is not usable;
// call [List.Init] or [New].
type List[T any] struct {
	head, tail *Entry[T]
	n          int
	entry      func(T) *Entry[T]
}

// New returns an empty list using entry to find an element's link.
func New[T any](entry func(T) *Entry[T]) *List[T] {
	l := &List[T]{}
	l.Init(entry)
	return l
}

// Init empties l. Elements still linked to l are not unlinked.
func (l *List[T]) Init(entry func(T) *Entry[T]) {
	l.head, l.tail, l.n = nil, nil, 0
	l.entry = entry
}

func (l *List[T]) link(v T) *Entry[T] {
	e := l.entry(v)
	if e.owner != nil {
		panic(fmt.Sprintf("ilist: element %v already linked", v))
	}
	e.owner = l
	e.value = v
	l.n++
	return e
}

// Len returns the number of elements on l.
func (l *List[T]) Len() int { return l.n }

// Empty reports whether l has no elements.
func (l *List[T]) Empty() bool { return l.n == 0 }

// Contains reports whether v is on l.
func (l *List[T]) Contains(v T) bool {
	return l.entry(v).owner == l
}

// PushBack appends v. It panics if v is already on a list.
func (l *List[T]) PushBack(v T) {
	e := l.link(v)
	e.next = nil
	e.prev = l.tail
	if l.tail != nil {
		l.tail.next = e
	} else {
		l.head = e
	}
	l.tail = e
}

// PushFront prepends v. It panics if v is already on a list.
func (l *List[T]) PushFront(v T) {
	e := l.link(v)
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	} else {
		l.tail = e
	}
	l.head = e
}

// InsertSorted inserts v before the first element e for which less(v, e)
// holds, so elements that compare equal keep their insertion order.
func (l *List[T]) InsertSorted(v T, less func(a, b T) bool) {
	var at *Entry[T]
	for e := l.head; e != nil; e = e.next {
		if less(v, e.value) {
			at = e
			break
		}
	}
	if at == nil {
		l.PushBack(v)
		return
	}
	e := l.link(v)
	e.next = at
	e.prev = at.prev
	if at.prev != nil {
		at.prev.next = e
	} else {
		l.head = e
	}
	at.prev = e
}

// Front returns the first element.
func (l *List[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.value, true
}

// PopFront removes and returns the first element.
func (l *List[T]) PopFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	v := l.head.value
	l.unlink(l.head)
	return v, true
}

// Remove unlinks v from l and reports whether it was on l.
func (l *List[T]) Remove(v T) bool {
	e := l.entry(v)
	if e.owner != l {
		return false
	}
	l.unlink(e)
	return true
}

func (l *List[T]) unlink(e *Entry[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	var zero T
	e.next, e.prev, e.owner, e.value = nil, nil, nil, zero
	l.n--
}

// All iterates over the elements of l from front to back. The element being
// visited may be removed during iteration.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := l.head; e != nil; {
			next := e.next
			if !yield(e.value) {
				return
			}
			e = next
		}
	}
}
