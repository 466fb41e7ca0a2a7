// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/linkctl/internal/config"
)

// Meta are the meta-options that are available on all commands. It is stored
// in each command's Metadata under "meta".
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// StartingDir is the working directory at startup. A relative list path
	// is resolved against it.
	StartingDir string
}
