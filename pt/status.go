package pt

//go:generate go run golang.org/x/tools/cmd/stringer -type=Status

// Status is the result of running a task until its next suspension point.
type Status uint8

const (
	// Yielded means the task gave up the processor but can run again
	// immediately.
	Yielded Status = iota
	// Waiting means the task is blocked until some condition changes.
	Waiting
	// Exited means the task ran to completion.
	Exited
	// Failed means the task stopped itself because of an error.
	Failed
	// Corrupted means the resumption token did not address a valid
	// resumption point.
	Corrupted
)

// Terminal reports whether s ends the task.
func (s Status) Terminal() bool {
	return s == Exited || s == Failed || s == Corrupted
}
