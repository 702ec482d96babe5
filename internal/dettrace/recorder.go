// Package dettrace keeps a running hash over scheduling decisions so that
// two runs of the same program can be compared by a single digest.
package dettrace

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Key

// Key identifies the kind of decision being recorded.
type Key byte

const (
	KeyRun Key = iota
	KeyWake
	KeyExpire
	KeyDispatch
	KeyResult
	KeyKill
)

// A Recorder hashes a sequence of (key, a, b) records. A nil *Recorder
// records nothing, so callers need not check whether tracing is enabled.
type Recorder struct {
	step   int
	hash   fnv64
	logger *slog.Logger
}

// New returns a Recorder that logs every record at DEBUG to logger.
func New(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{
		hash:   newFnv64(),
		logger: logger,
	}
}

// SetLogger replaces the logger records are written to.
func (r *Recorder) SetLogger(logger *slog.Logger) {
	if r != nil && logger != nil {
		r.logger = logger
	}
}

// Record adds one decision to the hash.
func (r *Recorder) Record(key Key, a, b uint64) {
	if r == nil {
		return
	}

	r.hash.hash([]byte{byte(key)})
	r.hash.hashInt(a)
	r.hash.hashInt(b)

	if r.logger.Enabled(context.TODO(), slog.LevelDebug) {
		r.logger.LogAttrs(context.TODO(), slog.LevelDebug, "dettrace",
			slog.Int("step", r.step),
			slog.String("key", key.String()),
			slog.Uint64("a", a),
			slog.Uint64("b", b),
			slog.Int64("sum", int64(r.hash)))
	}
	r.step++
}

// Steps returns the number of records so far.
func (r *Recorder) Steps() int {
	if r == nil {
		return 0
	}
	return r.step
}

// Sum returns the digest of everything recorded so far.
func (r *Recorder) Sum() []byte {
	if r == nil {
		return nil
	}
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(r.hash))
	return n[:]
}
