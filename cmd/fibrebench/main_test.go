package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
	})
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"fibrebench": fibrebench,
	}))
}

func TestCSV(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-runs", "2", "-cycles", "100", "-csv"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&stdout).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, rec := range records {
		if len(rec) != 4 {
			t.Fatalf("expected 4 columns, got %q", rec)
		}
		names = append(names, rec[0])
	}
	if diff := cmp.Diff([]string{"Test", "Single", "Paired"}, names); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestHistory(t *testing.T) {
	for _, kind := range []string{"bolt", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			db := filepath.Join(t.TempDir(), "runs.db")
			args := []string{"-runs", "1", "-cycles", "10", "-store", kind, "-db", db}
			for i := 0; i < 2; i++ {
				var stdout, stderr bytes.Buffer
				if err := run(context.Background(), args, &stdout, &stderr); err != nil {
					t.Fatal(err)
				}
			}

			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), append(args, "-history"), &stdout, &stderr); err != nil {
				t.Fatal(err)
			}
			var headers []string
			for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
				if strings.HasPrefix(line, "#") {
					headers = append(headers, strings.Fields(line)[0])
				}
			}
			if diff := cmp.Diff([]string{"#1", "#2"}, headers); diff != "" {
				t.Errorf("unexpected history (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-runs", "1", "-cycles", "10"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("expected cancellation error, got %v", err)
	}
}
