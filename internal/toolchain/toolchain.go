// Package toolchain installs the standalone compiler toolchains a
// target needs: the per-chip GCC cross-compilers and the Xtensa LLVM
// fork for clang-based tooling.
package toolchain

import (
	"context"

	"espkit/internal/fetch"
)

// Tool is one installable toolchain component.
type Tool interface {
	// Name identifies the component in logs and progress rows.
	Name() string
	// Install places the component under the tools root. It reports
	// cached=true when the component was already present and nothing
	// was downloaded.
	Install(ctx context.Context, client *fetch.Client) (cached bool, err error)
	// ExportVars returns KEY=VALUE environment assignments a shell
	// needs to use the component.
	ExportVars() []string
}
