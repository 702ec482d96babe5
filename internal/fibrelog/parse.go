package fibrelog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"
)

type Stackframe struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Line     int    `json:"line"`
}

// Log is one parsed JSON record.
type Log struct {
	Time   time.Time   `json:"time"`
	Level  slog.Level  `json:"level"`
	Msg    string      `json:"msg"`
	Source *Stackframe `json:"source"`
	Tick   uint64      `json:"tick"`
	Fibre  string      `json:"fibre"`
	Target string      `json:"target"`
	Status string      `json:"status"`
}

// ParseLog parses newline separated JSON records, skipping lines that are
// not JSON.
func ParseLog(logs []byte) []*Log {
	var out []*Log
	for _, line := range bytes.Split(logs, []byte("\n")) {
		var log Log
		if err := json.Unmarshal(line, &log); err != nil {
			continue
		}
		out = append(out, &log)
	}
	return out
}
