//go:build never

package fibre

// This file pins the tools used in this repository so that go.mod records
// their versions. Run them with go run, or through task.

import (
	// Commands.
	_ "github.com/kmrgirish/fibre/cmd/fibrebench"
	_ "github.com/kmrgirish/fibre/cmd/fibredemo"

	// Tools.
	_ "github.com/go-task/task/v3/cmd/task"
	_ "golang.org/x/tools/cmd/goimports"
	_ "golang.org/x/tools/cmd/stringer"
	_ "mvdan.cc/gofumpt"
)
