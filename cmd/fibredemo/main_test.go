package main

import (
	"bytes"
	"os"
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
		"fibredemo": fibredemo,
	}))
}

func TestSimulatedStopwatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-simulate", "-seconds", "62"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 63 {
		t.Fatalf("expected 63 lines, got %d", len(lines))
	}
	if diff := cmp.Diff([]string{"00:00", "00:01"}, lines[:2]); diff != "" {
		t.Errorf("unexpected first lines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"00:59", "01:00", "01:01", "01:02"}, lines[59:]); diff != "" {
		t.Errorf("unexpected last lines (-want +got):\n%s", diff)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", stderr.String())
	}
}

func TestChecksumIsStable(t *testing.T) {
	var sums []string
	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"-simulate", "-seconds", "5", "-checksum"}, &stdout, &stderr); err != nil {
			t.Fatal(err)
		}
		sums = append(sums, stderr.String())
	}
	if !strings.HasPrefix(sums[0], "checksum ") {
		t.Fatalf("expected checksum line, got %q", sums[0])
	}
	if sums[0] != sums[1] {
		t.Errorf("checksum differs between runs: %q != %q", sums[0], sums[1])
	}
}

func TestFlagErrors(t *testing.T) {
	testCases := []struct {
		args []string
		want string
	}{
		{args: []string{"-simulate"}, want: "-simulate requires -seconds"},
		{args: []string{"-seconds", "-1"}, want: "bad -seconds -1"},
		{args: []string{"extra"}, want: "unexpected arguments"},
		{args: []string{"-logformat", "xml"}, want: "bad log format"},
		{args: []string{"-simulate", "-seconds", "1", "-events", "33"}, want: "updater"},
		{args: []string{"-simulate", "-seconds", "1", "-log-level", "loud"}, want: "bad log level"},
	}
	for _, tc := range testCases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tc.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
