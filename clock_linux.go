package fibre

import "golang.org/x/sys/unix"

func monotonicMicros() uint32 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(err)
	}
	return uint32(int64(ts.Sec)*1_000_000 + int64(ts.Nsec)/1_000)
}
