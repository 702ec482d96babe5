package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kmrgirish/fibre"
	"github.com/kmrgirish/fibre/internal/bench"
	"github.com/kmrgirish/fibre/internal/benchstore"
	"github.com/kmrgirish/fibre/internal/config"
	"github.com/kmrgirish/fibre/internal/fibrelog"
)

const doc = `Fibrebench measures the cost of a fibre context switch.

Usage: fibrebench [flags]

Each run times a single fibre yielding -cycles times, then two fibres
sharing -cycles yields between them. Times are in microseconds of the
monotonic clock. Results are printed as a table, or as CSV with -csv.

When -db is set the results are also appended to a local database, and
-history lists the stored results instead of running the benchmark.

The flags are:

    -runs N           number of runs
    -cycles N         yields per stage
    -csv              print CSV instead of a table
    -store KIND       database kind: bolt or sqlite
    -db PATH          database to append results to
    -history          list the results stored in -db and exit
    -log-level LEVEL  DEBUG, INFO, WARN or ERROR
    -logformat FMT    raw, indented or pretty
    -config FILE      read settings from a TOML file; flags take precedence
`

type options struct {
	cfg     config.Config
	history bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	defaults := config.Default()
	fs := flag.NewFlagSet("fibrebench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, doc) }

	runs := fs.Int("runs", defaults.Bench.Runs, "number of runs")
	cycles := fs.Int("cycles", defaults.Bench.Cycles, "yields per stage")
	csv := fs.Bool("csv", defaults.Bench.CSV, "print CSV")
	store := fs.String("store", defaults.Bench.Store, "database kind")
	db := fs.String("db", defaults.Bench.DB, "database path")
	history := fs.Bool("history", false, "list stored results")
	level := fs.String("log-level", defaults.Log.Level, "log level")
	format := fibrelog.Format(defaults.Log.Format)
	fs.Var(&format, "logformat", "log format")
	configPath := fs.String("config", "", "TOML configuration file")

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
	if set["runs"] {
		cfg.Bench.Runs = *runs
	}
	if set["cycles"] {
		cfg.Bench.Cycles = *cycles
	}
	if set["csv"] {
		cfg.Bench.CSV = *csv
	}
	if set["store"] {
		cfg.Bench.Store = *store
	}
	if set["db"] {
		cfg.Bench.DB = *db
	}
	if set["log-level"] {
		cfg.Log.Level = *level
	}
	if set["logformat"] {
		cfg.Log.Format = string(format)
	}

	if cfg.Bench.Runs <= 0 {
		return nil, fmt.Errorf("bad -runs %d", cfg.Bench.Runs)
	}
	if cfg.Bench.Cycles < 2 {
		return nil, fmt.Errorf("bad -cycles %d", cfg.Bench.Cycles)
	}
	if *history && cfg.Bench.DB == "" {
		return nil, errors.New("-history requires -db")
	}
	return &options{cfg: cfg, history: *history}, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	level, err := fibrelog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	var format fibrelog.Format
	if err := format.Set(cfg.Log.Format); err != nil {
		return err
	}

	sched := fibre.NewScheduler(fibre.Config{})
	logger := fibrelog.New(stderr, level, format, sched)
	sched.SetLogger(logger)

	var store benchstore.Store
	if cfg.Bench.DB != "" {
		zl, err := fibrelog.Zap(logger)
		if err != nil {
			return err
		}
		defer zl.Sync()

		store, err = benchstore.Open(cfg.Bench.Store, cfg.Bench.DB, zl)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if opts.history {
		return printHistory(ctx, stdout, store)
	}

	b := bench.New(bench.Config{
		Cycles:    cfg.Bench.Cycles,
		Now:       fibre.MonotonicClock{}.Now,
		Scheduler: sched,
	})
	results, err := b.Run(ctx, cfg.Bench.Runs)
	if err != nil {
		return err
	}
	logger.Info("benchmark finished", "runs", results.Runs, "dispatches", sched.Stats().Dispatches)

	if cfg.Bench.CSV {
		err = bench.WriteCSV(stdout, results)
	} else {
		err = bench.WriteTable(stdout, results)
	}
	if err != nil {
		return err
	}

	if store != nil {
		if _, err := store.Put(ctx, benchstore.NewRecord(time.Now(), results)); err != nil {
			return err
		}
	}
	return nil
}

func printHistory(ctx context.Context, w io.Writer, store benchstore.Store) error {
	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintf(w, "#%d %s runs=%d cycles=%d\n", rec.Seq, rec.Time.Format(time.RFC3339), rec.Runs, rec.Cycles)
		for _, row := range rec.Rows {
			fmt.Fprintf(w, "    %-12s%10d%10d%10d\n", row.Name, row.Min, row.Mean, row.Max)
		}
	}
	return nil
}

func fibrebench() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "fibrebench: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(fibrebench())
}
