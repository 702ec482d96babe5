package benchstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/kmrgirish/fibre/internal/bench"
	"github.com/kmrgirish/fibre/internal/benchstore"
)

func sampleResults(runs int) *bench.Results {
	r := &bench.Results{Runs: runs, Cycles: 1000}
	for i := 0; i < runs; i++ {
		r.Single.Add(uint32(100 + i))
		r.Paired.Add(uint32(200 + i))
	}
	return r
}

func TestStores(t *testing.T) {
	for _, kind := range []string{"bolt", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "bench.db")
			logger := zaptest.NewLogger(t)

			store, err := benchstore.Open(kind, path, logger)
			if err != nil {
				t.Fatal(err)
			}

			base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
			var want []*benchstore.Record
			for i := 1; i <= 3; i++ {
				rec := benchstore.NewRecord(base.Add(time.Duration(i)*time.Minute), sampleResults(i))
				seq, err := store.Put(ctx, rec)
				if err != nil {
					t.Fatal(err)
				}
				if seq != uint64(i) {
					t.Errorf("expected seq %d, got %d", i, seq)
				}
				want = append(want, rec)
			}
			if err := store.Close(); err != nil {
				t.Fatal(err)
			}

			// reopen to check the records were persisted
			store, err = benchstore.Open(kind, path, logger)
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()

			got, err := store.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("unexpected records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownKind(t *testing.T) {
	if _, err := benchstore.Open("csv", filepath.Join(t.TempDir(), "x"), nil); !errors.Is(err, benchstore.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
