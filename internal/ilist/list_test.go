package ilist_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/kmrgirish/fibre/internal/ilist"
)

type item struct {
	key   int
	id    int
	ready ilist.Entry[*item]
	other ilist.Entry[*item]
}

func readyEntry(it *item) *ilist.Entry[*item] { return &it.ready }
func otherEntry(it *item) *ilist.Entry[*item] { return &it.other }

func ids(l *ilist.List[*item]) []int {
	var out []int
	for it := range l.All() {
		out = append(out, it.id)
	}
	return out
}

func TestList(t *testing.T) {
	l := ilist.New(readyEntry)
	a, b, c := &item{id: 1}, &item{id: 2}, &item{id: 3}

	l.PushBack(a)
	l.PushBack(b)
	l.PushFront(c)
	if diff := cmp.Diff([]int{3, 1, 2}, ids(l)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
	if l.Len() != 3 {
		t.Errorf("expected len 3, got %d", l.Len())
	}

	if !l.Remove(a) {
		t.Error("expected remove to find element")
	}
	if l.Remove(a) {
		t.Error("expected second remove to miss")
	}
	if a.ready.Linked() {
		t.Error("expected removed element to be unlinked")
	}

	if front, ok := l.PopFront(); !ok || front != c {
		t.Errorf("expected front %v, got %v", c, front)
	}
	if front, ok := l.Front(); !ok || front != b {
		t.Errorf("expected front %v, got %v", b, front)
	}
	l.PopFront()
	if !l.Empty() {
		t.Error("expected empty list")
	}
	if _, ok := l.PopFront(); ok {
		t.Error("expected pop from empty list to fail")
	}
}

func TestTwoLists(t *testing.T) {
	ready := ilist.New(readyEntry)
	other := ilist.New(otherEntry)
	a := &item{id: 1}
	ready.PushBack(a)
	other.PushBack(a)

	if !a.ready.On(ready) || !a.other.On(other) {
		t.Error("expected element on both lists")
	}
	if other.Remove(a); ready.Len() != 1 {
		t.Error("removing from one list touched the other")
	}
}

func TestDoubleInsertPanics(t *testing.T) {
	l := ilist.New(readyEntry)
	other := ilist.New(readyEntry)
	a := &item{id: 1}
	l.PushBack(a)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	other.PushBack(a)
}

func TestInsertSortedStable(t *testing.T) {
	l := ilist.New(readyEntry)
	less := func(a, b *item) bool { return a.key < b.key }
	for i, key := range []int{5, 1, 5, 3, 1} {
		l.InsertSorted(&item{key: key, id: i}, less)
	}
	if diff := cmp.Diff([]int{1, 4, 3, 0, 2}, ids(l)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestRemoveDuringIteration(t *testing.T) {
	l := ilist.New(readyEntry)
	for i := 0; i < 5; i++ {
		l.PushBack(&item{id: i})
	}
	for it := range l.All() {
		if it.id%2 == 0 {
			l.Remove(it)
		}
	}
	if diff := cmp.Diff([]int{1, 3}, ids(l)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestCheckList(t *testing.T) {
	rapid.Check(t, checkList)
}

func checkList(t *rapid.T) {
	l := ilist.New(readyEntry)
	var model []*item
	var pool []*item
	for i := 0; i < 8; i++ {
		pool = append(pool, &item{id: i})
	}
	less := func(a, b *item) bool { return a.key < b.key }

	actions := make(map[string]func(t *rapid.T))

	actions["pushback"] = func(t *rapid.T) {
		it := rapid.SampledFrom(pool).Draw(t, "item")
		if it.ready.Linked() {
			t.Skip()
		}
		l.PushBack(it)
		model = append(model, it)
	}

	actions["pushfront"] = func(t *rapid.T) {
		it := rapid.SampledFrom(pool).Draw(t, "item")
		if it.ready.Linked() {
			t.Skip()
		}
		l.PushFront(it)
		model = append([]*item{it}, model...)
	}

	actions["sorted"] = func(t *rapid.T) {
		it := rapid.SampledFrom(pool).Draw(t, "item")
		if it.ready.Linked() {
			t.Skip()
		}
		// only meaningful on a sorted list, so sort the model first
		slices.SortStableFunc(model, func(a, b *item) int { return a.key - b.key })
		l.Init(readyEntry)
		for _, m := range model {
			m.ready = ilist.Entry[*item]{}
			l.PushBack(m)
		}
		it.key = rapid.IntRange(0, 4).Draw(t, "key")
		l.InsertSorted(it, less)
		idx := len(model)
		for i, m := range model {
			if less(it, m) {
				idx = i
				break
			}
		}
		model = slices.Insert(model, idx, it)
	}

	actions["pop"] = func(t *rapid.T) {
		it, ok := l.PopFront()
		if len(model) == 0 {
			if ok {
				t.Fatalf("expected empty pop, got %v", it)
			}
			return
		}
		if it != model[0] {
			t.Fatalf("expected %d, got %d", model[0].id, it.id)
		}
		model = model[1:]
	}

	actions["remove"] = func(t *rapid.T) {
		it := rapid.SampledFrom(pool).Draw(t, "item")
		idx := slices.Index(model, it)
		if got := l.Remove(it); got != (idx != -1) {
			t.Fatalf("expected remove %v, got %v", idx != -1, got)
		}
		if idx != -1 {
			model = slices.Delete(model, idx, idx+1)
		}
	}

	actions[""] = func(t *rapid.T) {
		if l.Len() != len(model) {
			t.Fatalf("expected len %d, got %d", len(model), l.Len())
		}
		var want []int
		for _, m := range model {
			want = append(want, m.id)
		}
		if diff := cmp.Diff(want, ids(l)); diff != "" {
			t.Fatalf("unexpected order (-want +got):\n%s", diff)
		}
	}

	t.Repeat(actions)
}
