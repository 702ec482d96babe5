// MIT License
//
// # Copyright (c) 2017 Olivier Poitrey
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Based on https://github.com/rs/zerolog/blob/master/console.go.

// Package prettylog renders JSON log lines for a terminal.
package prettylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35
	colorCyan    = 36

	colorBold     = 1
	colorDarkGray = 90
)

// Keys the scheduler's log handler stamps on every record.
const (
	TickKey  = "tick"
	FibreKey = "fibre"
)

const errorKey = "err"

// known keys are printed first, in this order
var leading = []string{TickKey, FibreKey, slog.TimeKey, slog.LevelKey, slog.SourceKey, slog.MessageKey}

// A Writer turns each JSON object written to it into one line of text.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewWriter returns a Writer to out. Colour is used when stdout is a
// terminal, unless NO_COLOR is set or FORCE_COLOR overrides it.
func NewWriter(out io.Writer) *Writer {
	color := os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb" &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	if os.Getenv("FORCE_COLOR") != "" {
		color = true
	}
	return &Writer{out: out, color: color}
}

// SetColor turns ANSI colours on or off.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// Write formats one JSON record. Input that is not JSON is passed through
// unchanged and reported as an error.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var evt map[string]any
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		w.out.Write(p)
		return len(p), fmt.Errorf("cannot decode event: %w", err)
	}

	var buf bytes.Buffer
	for _, key := range leading {
		w.part(&buf, evt, key)
	}
	w.fields(&buf, evt)
	buf.WriteByte('\n')

	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) part(buf *bytes.Buffer, evt map[string]any, key string) {
	var s string
	switch key {
	case TickKey:
		if v, ok := evt[key]; ok {
			s = fmt.Sprintf("%6v", v)
		} else {
			s = "     -"
		}
	case FibreKey:
		name, _ := evt[key].(string)
		if name == "" {
			name = "-"
		}
		s = fmt.Sprintf("%-10s", name)
	case slog.TimeKey:
		s = w.timestamp(evt[key])
	case slog.LevelKey:
		s = w.level(evt[key])
	case slog.SourceKey:
		s = w.caller(evt[key])
	case slog.MessageKey:
		if msg, _ := evt[key].(string); msg != "" {
			s = msg
			if lvl, _ := evt[slog.LevelKey].(string); lvl != "DEBUG" {
				s = w.colorize(msg, colorBold)
			}
		}
	}
	if s == "" {
		return
	}
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
	buf.WriteString(s)
}

func (w *Writer) fields(buf *bytes.Buffer, evt map[string]any) {
	var keys []string
	for key := range evt {
		if !slices.Contains(leading, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	// errors first
	if i := slices.Index(keys, errorKey); i > 0 {
		keys = slices.Delete(keys, i, i+1)
		keys = slices.Insert(keys, 0, errorKey)
	}

	for _, key := range keys {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(w.colorize(key+"=", colorCyan))

		var value string
		switch v := evt[key].(type) {
		case string:
			value = v
			if needsQuote(v) {
				value = strconv.Quote(v)
			}
		case json.Number:
			value = v.String()
		default:
			b, err := json.Marshal(v)
			if err != nil {
				value = w.colorize(fmt.Sprintf("[error: %v]", err), colorRed)
			} else {
				value = string(b)
			}
		}
		if key == errorKey {
			value = w.colorize(w.colorize(value, colorRed), colorBold)
		}
		buf.WriteString(value)
	}
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	for i := range s {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == ' ' || s[i] == '\\' || s[i] == '"' {
			return true
		}
	}
	return false
}

func (w *Writer) colorize(s string, c int) string {
	if !w.color {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}

const timeFormat = "15:04:05.000"

func (w *Writer) timestamp(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		s = ts.UTC().Format(timeFormat)
	}
	return w.colorize(s, colorDarkGray)
}

var levels = map[slog.Level]struct {
	short string
	color int
}{
	slog.LevelDebug: {"DBG", colorMagenta},
	slog.LevelInfo:  {"INF", colorGreen},
	slog.LevelWarn:  {"WRN", colorYellow},
	slog.LevelError: {"ERR", colorRed},
}

func (w *Writer) level(v any) string {
	s, ok := v.(string)
	if !ok {
		return "???"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err == nil {
		if l, ok := levels[level]; ok {
			return w.colorize(l.short, l.color)
		}
	}
	return s
}

func (w *Writer) caller(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	file, _ := m["file"].(string)
	line, _ := m["line"].(json.Number)
	if file == "" {
		return ""
	}
	loc := fmt.Sprintf("%s/%s:%s", path.Base(path.Dir(file)), path.Base(file), line)
	return w.colorize(loc, colorDarkGray) + w.colorize(" >", colorCyan)
}
