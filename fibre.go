package fibre

import (
	"fmt"
	"sync/atomic"

	"github.com/kmrgirish/fibre/internal/ilist"
	"github.com/kmrgirish/fibre/pt"
)

// An Entrypoint is the body of a fibre. It runs until the fibre's task
// suspends or terminates and reports which one happened.
type Entrypoint func(f *Fibre) pt.Status

// Task returns an Entrypoint that runs p with env, keeping p's position in
// the fibre's token.
func Task[T any](p *pt.Program[T], env T) Entrypoint {
	return func(f *Fibre) pt.Status {
		return p.Run(env, &f.tok)
	}
}

// A Fibre is a schedulable task. Fibres are owned by the caller and are
// usually embedded in the structure holding the task's state. The zero
// value is not runnable; call [Fibre.Init].
type Fibre struct {
	fn   Entrypoint
	name string
	id   int

	state atomic.Uint32
	tok   pt.Token

	// due is the wake time while TimerWaiting; dueSet records that
	// Timeout asked for one during the current dispatch.
	due    uint32
	dueSet bool

	link  ilist.Entry[*Fibre]
	sched *Scheduler

	// pending interrupt-side wake
	pending     atomic.Bool
	pendingNext *Fibre
}

func fibreLink(f *Fibre) *ilist.Entry[*Fibre] { return &f.link }

// Init prepares f to run fn from the start. A fibre may be initialised
// again once it has exited or been killed.
func (f *Fibre) Init(fn Entrypoint) {
	if f.link.Linked() || f.pending.Load() {
		panic(fmt.Sprintf("fibre: init of queued fibre %s", f))
	}
	f.fn = fn
	f.state.Store(uint32(Idle))
	f.tok.Init()
	f.due, f.dueSet = 0, false
}

// SetName names f in logs. Unnamed fibres are shown by number.
func (f *Fibre) SetName(name string) {
	f.name = name
}

func (f *Fibre) String() string {
	if f.name != "" {
		return f.name
	}
	return fmt.Sprintf("fibre#%d", f.id)
}

// ID returns f's number within its scheduler, or 0 if f never ran.
func (f *Fibre) ID() int {
	return f.id
}

// State returns f's current state. A fibre woken while it runs is reported
// as Running.
func (f *Fibre) State() State {
	s := f.state.Load()
	if s == stateRunningWoken {
		return Running
	}
	return State(s)
}

// Scheduler returns the scheduler that last ran f.
func (f *Fibre) Scheduler() *Scheduler {
	return f.sched
}

// Token returns the resumption token of f's task, for entrypoints that run
// a program by hand.
func (f *Fibre) Token() *pt.Token {
	return &f.tok
}

// Timeout reports whether the current time is at or after due. When it is
// not, due becomes f's wake time: if the task then returns [pt.Waiting], f
// sleeps until due instead of going idle. When called several times in one
// dispatch, the last deadline not yet reached wins.
//
// Timeout may only be called by f's own task while it is dispatched.
func (f *Fibre) Timeout(due uint32) bool {
	if f.sched == nil || f.sched.current.Load() != f {
		panic(fmt.Sprintf("fibre: Timeout on %s outside its dispatch", f))
	}
	if AtOrAfter(f.sched.now, due) {
		return true
	}
	f.due = due
	f.dueSet = true
	return false
}
