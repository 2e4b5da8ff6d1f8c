// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
)

// Meta contains runtime metadata shared by commands. It carries CLI
// arguments, context, and the starting working directory so actions can
// reason about where the process was launched from.
type Meta struct {
	Args        []string
	Context     context.Context
	StartingDir string
}
