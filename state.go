package fibre

//go:generate go run golang.org/x/tools/cmd/stringer -type=State

// State is the scheduling state of a [Fibre].
type State uint32

const (
	// Idle fibres are not queued anywhere and wait for a Run.
	Idle State = iota
	// Runnable fibres are queued for dispatch.
	Runnable
	// TimerWaiting fibres sleep until their deadline passes.
	TimerWaiting
	// Running is the state of the fibre being dispatched.
	Running
	// Exited fibres have terminated or were killed.
	Exited
)

// stateRunningWoken is a Running fibre that was woken while it ran. It is
// reported as Running.
const stateRunningWoken = uint32(Exited) + 1
