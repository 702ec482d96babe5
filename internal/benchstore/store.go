// Package benchstore keeps the history of benchmark runs in a local
// database.
package benchstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kmrgirish/fibre/internal/bench"
)

// A Record is one stored benchmark result.
type Record struct {
	Seq    uint64      `json:"-"`
	Time   time.Time   `json:"time"`
	Runs   int         `json:"runs"`
	Cycles int         `json:"cycles"`
	Rows   []bench.Row `json:"rows"`
}

// NewRecord summarises results taken at t.
func NewRecord(t time.Time, results *bench.Results) *Record {
	return &Record{
		Time:   t.UTC(),
		Runs:   results.Runs,
		Cycles: results.Cycles,
		Rows:   results.Rows(),
	}
}

// A Store persists records. Records are listed in the order they were put.
type Store interface {
	Put(ctx context.Context, rec *Record) (uint64, error)
	List(ctx context.Context) ([]*Record, error)
	Close() error
}

var ErrUnknownKind = errors.New("unknown store kind")

// Open opens the store of the given kind ("bolt" or "sqlite") at path,
// creating it if needed.
func Open(kind, path string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("store", kind), zap.String("path", path))

	switch kind {
	case "bolt":
		return openBolt(path, logger)
	case "sqlite":
		return openSQLite(path, logger)
	default:
		return nil, fmt.Errorf("%w %q, want bolt|sqlite", ErrUnknownKind, kind)
	}
}
