package fibre

// UnboundedSleep is how far ahead [Scheduler.Next] asks to be called again
// when no fibre is runnable or sleeping.
const UnboundedSleep uint32 = 0x7fffffff

// AtOrAfter reports whether t is at or after ref in wrapping time.
func AtOrAfter(t, ref uint32) bool {
	return int32(t-ref) >= 0
}

// Before reports whether t is strictly before ref in wrapping time.
func Before(t, ref uint32) bool {
	return int32(t-ref) < 0
}
