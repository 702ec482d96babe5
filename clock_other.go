//go:build !linux

package fibre

import "time"

var clockStart = time.Now()

func monotonicMicros() uint32 {
	return uint32(time.Since(clockStart).Microseconds())
}
