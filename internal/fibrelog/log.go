// Package fibrelog builds the structured loggers used by the commands and
// the scheduler.
package fibrelog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	zapslog "github.com/tommoulard/zap-slog"
	"go.uber.org/zap"

	"github.com/kmrgirish/fibre/internal/prettylog"
)

// A Source supplies the scheduler state stamped on every record. It is
// implemented by *fibre.Scheduler.
type Source interface {
	Tick() uint64
	Dispatching() string
}

// Format selects how records are rendered.
type Format string

const (
	FormatRaw      Format = "raw"
	FormatIndented Format = "indented"
	FormatPretty   Format = "pretty"
)

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	k := Format(s)
	if k != FormatRaw && k != FormatIndented && k != FormatPretty {
		return fmt.Errorf("bad log format %q, want raw|indented|pretty", s)
	}
	*f = k
	return nil
}

func (f *Format) String() string {
	return string(*f)
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("bad log level %q: %w", s, err)
	}
	return level, nil
}

// New returns a logger writing JSON records at or above level to out,
// rendered as format. If src is non-nil every record is stamped with the
// scheduler tick and the fibre being dispatched.
func New(out io.Writer, level slog.Level, format Format, src Source) *slog.Logger {
	ho := slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	var handler slog.Handler = slog.NewJSONHandler(console(out, format), &ho)
	if src != nil {
		handler = wrapHandler{inner: handler, src: src}
	}
	return slog.New(handler)
}

type wrapHandler struct {
	inner slog.Handler
	src   Source
}

func (w wrapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return w.inner.Enabled(ctx, level)
}

func (w wrapHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.Uint64(prettylog.TickKey, w.src.Tick()))
	if name := w.src.Dispatching(); name != "" {
		r.AddAttrs(slog.String(prettylog.FibreKey, name))
	}
	return w.inner.Handle(ctx, r)
}

func (w wrapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return wrapHandler{inner: w.inner.WithAttrs(attrs), src: w.src}
}

func (w wrapHandler) WithGroup(name string) slog.Handler {
	return wrapHandler{inner: w.inner.WithGroup(name), src: w.src}
}

type indentedWriter struct {
	out io.Writer
}

func (w *indentedWriter) Write(p []byte) (n int, err error) {
	if len(p) > 0 && p[len(p)-1] == '\n' {
		var x any
		if err := json.Unmarshal(p, &x); err == nil {
			o := json.NewEncoder(w.out)
			o.SetIndent("", "  ")
			if err := o.Encode(x); err != nil {
				return 0, err
			}
			return len(p), nil
		}
	}
	return w.out.Write(p)
}

func console(out io.Writer, format Format) io.Writer {
	switch format {
	case FormatRaw, "":
		return out
	case FormatIndented:
		return &indentedWriter{out: out}
	case FormatPretty:
		return prettylog.NewWriter(out)
	default:
		panic(format)
	}
}

// Zap returns a zap logger whose records are written to l.
func Zap(l *slog.Logger) (*zap.Logger, error) {
	return zap.NewProduction(zapslog.WrapCore(l))
}
