// Package bench measures the cost of a fibre context switch by timing fibres
// that do nothing but yield.
package bench

import (
	"context"
	"fmt"

	"github.com/kmrgirish/fibre"
	"github.com/kmrgirish/fibre/pt"
)

// DefaultCycles is the number of yields per benchmark stage.
const DefaultCycles = 1_000_000

// Config configures a [Bench].
type Config struct {
	// Cycles is the number of yields in each stage. The paired stage splits
	// them between its two fibres.
	Cycles int
	// Now reads the clock the stages are timed with.
	Now func() uint32
	// Scheduler runs the benchmark fibres. Nil creates a private one.
	Scheduler *fibre.Scheduler
}

type yielder struct {
	cycles int
	count  int
	start  uint32
	end    uint32
	done   bool
	next   *fibre.Fibre
	b      *Bench
	fibre  fibre.Fibre
}

var yieldProgram = pt.New(
	pt.Do(func(y *yielder) {
		y.start = y.b.now()
		y.count = 0
		y.done = false
	}),
	pt.While(func(y *yielder) bool {
		y.count++
		return y.count <= y.cycles
	},
		pt.Yield[*yielder](),
	),
	pt.Do(func(y *yielder) {
		y.end = y.b.now()
		y.done = true
		y.b.sched.Run(y.next)
	}),
)

type runner struct {
	b     *Bench
	fibre fibre.Fibre
}

var runProgram = pt.New(
	pt.Do(func(r *runner) { r.b.sched.Run(&r.b.single.fibre) }),
	pt.WaitUntil(func(r *runner) bool { return r.b.single.done }),
	pt.Do(func(r *runner) {
		s := &r.b.single
		r.b.results.Single.Add(s.end - s.start)

		r.b.sched.Run(&r.b.paired[0].fibre)
		r.b.sched.Run(&r.b.paired[1].fibre)
	}),
	pt.WaitUntil(func(r *runner) bool { return r.b.paired[0].done && r.b.paired[1].done }),
	pt.Do(func(r *runner) {
		p := &r.b.paired
		r.b.results.Paired.Add(p[1].end - p[0].start)
	}),
)

// A Bench runs the yield benchmark and accumulates its results.
type Bench struct {
	sched   *fibre.Scheduler
	now     func() uint32
	single  yielder
	paired  [2]yielder
	runner  runner
	results Results
}

// New returns a Bench. It panics if cfg.Now is nil.
func New(cfg Config) *Bench {
	if cfg.Now == nil {
		panic("bench: no clock")
	}
	if cfg.Cycles <= 0 {
		cfg.Cycles = DefaultCycles
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = fibre.NewScheduler(fibre.Config{})
	}

	b := &Bench{sched: sched, now: cfg.Now}
	b.runner.b = b
	b.runner.fibre.SetName("bench-runner")

	b.single = yielder{cycles: cfg.Cycles, b: b, next: &b.runner.fibre}
	b.single.fibre.SetName("single")
	for i := range b.paired {
		b.paired[i] = yielder{cycles: cfg.Cycles / 2, b: b, next: &b.runner.fibre}
		b.paired[i].fibre.SetName(fmt.Sprintf("paired-%d", i))
	}
	b.results.Cycles = cfg.Cycles
	return b
}

// RunOnce runs each stage once and adds the timings to the results.
func (b *Bench) RunOnce(ctx context.Context) error {
	b.runner.fibre.Init(fibre.Task(runProgram, &b.runner))
	for _, y := range []*yielder{&b.single, &b.paired[0], &b.paired[1]} {
		y.done = false
		y.fibre.Init(fibre.Task(yieldProgram, y))
	}

	b.sched.Run(&b.runner.fibre)
	for b.runner.fibre.State() != fibre.Exited {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.sched.Next(b.now())
	}
	b.results.Runs++
	return nil
}

// Run runs the benchmark runs times.
func (b *Bench) Run(ctx context.Context, runs int) (*Results, error) {
	for i := 0; i < runs; i++ {
		if err := b.RunOnce(ctx); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}
	return b.Results(), nil
}

// Results returns a copy of the results so far.
func (b *Bench) Results() *Results {
	r := b.results
	return &r
}
