package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kmrgirish/fibre"
	"github.com/kmrgirish/fibre/internal/config"
	"github.com/kmrgirish/fibre/internal/fibrelog"
	"github.com/kmrgirish/fibre/pt"
)

const doc = `Fibredemo runs a stopwatch on the fibre scheduler.

Usage: fibredemo [flags]

A ticker fibre sleeps until each whole second and posts the elapsed time to
an updater fibre through its event queue. The updater prints the time as
MM:SS. An interrupt is posted to the updater from outside the scheduler,
which prints the time reached and stops.

The flags are:

    -seconds N        stop after N seconds; 0 runs until interrupted
    -simulate         run on a simulated clock; requires -seconds
    -events N         number of event slots of the updater (at most 32)
    -checksum         print a digest of every scheduling decision on exit
    -log-level LEVEL  DEBUG, INFO, WARN or ERROR
    -logformat FMT    raw, indented or pretty
    -config FILE      read settings from a TOML file; flags take precedence
    -print-config     print the effective configuration and exit
`

type event struct {
	seconds     int
	interrupted bool
}

type stopwatch struct {
	out     io.Writer
	logger  *slog.Logger
	limit   int
	seconds int
	due     uint32
	stop    func()

	ticker  fibre.Fibre
	updater fibre.EventQueue[event]
}

func (w *stopwatch) finished() bool {
	return w.limit > 0 && w.seconds >= w.limit
}

func (w *stopwatch) post() {
	evt := w.updater.Claim()
	if evt == nil {
		w.logger.Warn("updater queue full, dropping tick", "seconds", w.seconds)
		return
	}
	*evt = event{seconds: w.seconds}
	w.updater.Send(evt)
}

var tickProgram = pt.New(
	pt.Do(func(w *stopwatch) { w.due = w.ticker.Scheduler().Now() }),
	pt.Forever(
		pt.Do((*stopwatch).post),
		pt.If((*stopwatch).finished, pt.Exit[*stopwatch]()),
		pt.Do(func(w *stopwatch) { w.due += 1_000_000 }),
		pt.WaitUntil(func(w *stopwatch) bool { return w.ticker.Timeout(w.due) }),
		pt.Do(func(w *stopwatch) {
			w.seconds++
			w.logger.Debug("tick", "seconds", w.seconds)
		}),
	),
)

func (w *stopwatch) update(*fibre.Fibre) pt.Status {
	for !w.updater.Empty() {
		evt := w.updater.Receive()
		seconds, interrupted := evt.seconds, evt.interrupted
		w.updater.Release(evt)

		if interrupted {
			seconds = w.seconds
			fmt.Fprintf(w.out, "stopped at %02d:%02d\n", seconds/60, seconds%60)
			w.stop()
			return pt.Exited
		}
		fmt.Fprintf(w.out, "%02d:%02d\n", seconds/60, seconds%60)
		if w.limit > 0 && seconds >= w.limit {
			w.stop()
			return pt.Exited
		}
	}
	return pt.Waiting
}

type options struct {
	cfg         config.Config
	checksum    bool
	printConfig bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	defaults := config.Default()
	fs := flag.NewFlagSet("fibredemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, doc) }

	seconds := fs.Int("seconds", defaults.Demo.Seconds, "stop after this many seconds")
	simulate := fs.Bool("simulate", defaults.Demo.Simulate, "use a simulated clock")
	events := fs.Int("events", defaults.Demo.Events, "event slots of the updater")
	level := fs.String("log-level", defaults.Log.Level, "log level")
	format := fibrelog.Format(defaults.Log.Format)
	fs.Var(&format, "logformat", "log format")
	configPath := fs.String("config", "", "TOML configuration file")
	checksum := fs.Bool("checksum", false, "print the scheduling digest")
	printConfig := fs.Bool("print-config", false, "print the configuration and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	set := config.Explicit(fs)
	if set["seconds"] {
		cfg.Demo.Seconds = *seconds
	}
	if set["simulate"] {
		cfg.Demo.Simulate = *simulate
	}
	if set["events"] {
		cfg.Demo.Events = *events
	}
	if set["log-level"] {
		cfg.Log.Level = *level
	}
	if set["logformat"] {
		cfg.Log.Format = string(format)
	}

	if cfg.Demo.Seconds < 0 {
		return nil, fmt.Errorf("bad -seconds %d", cfg.Demo.Seconds)
	}
	if cfg.Demo.Simulate && cfg.Demo.Seconds == 0 {
		return nil, errors.New("-simulate requires -seconds")
	}
	return &options{cfg: cfg, checksum: *checksum, printConfig: *printConfig}, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	if opts.printConfig {
		data, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	level, err := fibrelog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	var format fibrelog.Format
	if err := format.Set(cfg.Log.Format); err != nil {
		return err
	}

	sched := fibre.NewScheduler(fibre.Config{Checksum: opts.checksum})
	logger := fibrelog.New(stderr, level, format, sched)
	sched.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &stopwatch{
		out:    stdout,
		logger: logger,
		limit:  cfg.Demo.Seconds,
		stop:   cancel,
	}
	if err := w.updater.Init(sched, w.update, make([]event, cfg.Demo.Events)); err != nil {
		return fmt.Errorf("updater: %w", err)
	}
	w.updater.SetName("updater")
	w.ticker.Init(fibre.Task(tickProgram, w))
	w.ticker.SetName("ticker")

	var clock fibre.Clock = fibre.MonotonicClock{}
	if cfg.Demo.Simulate {
		clock = fibre.NewSimClock(0)
	}

	sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	sched.Run(&w.ticker)
	sched.Run(&w.updater.Fibre)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		err := sched.MainLoop(gctx, clock)
		if errors.Is(err, context.Canceled) || errors.Is(err, fibre.ErrIdle) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-sigCtx.Done()
		if ctx.Err() != nil {
			return nil
		}
		// a second signal kills the process
		stopSignals()
		if evt := w.updater.Claim(); evt != nil {
			*evt = event{interrupted: true}
			w.updater.Send(evt)
			return nil
		}
		cancel()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.checksum {
		fmt.Fprintf(stderr, "checksum %s\n", hex.EncodeToString(sched.Checksum()))
	}
	st := sched.Stats()
	logger.Info("done", "dispatches", st.Dispatches, "wakes", st.AtomicWakes)
	return nil
}

func fibredemo() int {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "fibredemo: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(fibredemo())
}
