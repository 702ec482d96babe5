package dettrace

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecorderDeterministic(t *testing.T) {
	run := func(keys []Key) []byte {
		r := New(nil)
		for i, k := range keys {
			r.Record(k, uint64(i), uint64(i*1000))
		}
		return r.Sum()
	}

	a := run([]Key{KeyRun, KeyDispatch, KeyResult})
	b := run([]Key{KeyRun, KeyDispatch, KeyResult})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same records hashed differently (-a +b):\n%s", diff)
	}
	c := run([]Key{KeyRun, KeyResult, KeyDispatch})
	if bytes.Equal(a, c) {
		t.Error("different records hashed the same")
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Record(KeyRun, 1, 2)
	if r.Sum() != nil || r.Steps() != 0 {
		t.Error("expected nil recorder to record nothing")
	}
}

func TestRecorderLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(logger)
	r.Record(KeyExpire, 3, 40)
	if r.Steps() != 1 {
		t.Errorf("expected 1 step, got %d", r.Steps())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"key":"KeyExpire"`)) {
		t.Errorf("expected record in log, got %s", buf.String())
	}
}
