package toolchain

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"espkit/internal/chip"
	"espkit/internal/fetch"
	"espkit/internal/paths"
	"espkit/internal/platform"
)

// GccOptions locates GCC toolchain release artifacts.
type GccOptions struct {
	// Repository is the release download root.
	Repository string
	// Release is the crosstool release tag, e.g. esp-2021r2-patch3.
	Release string
	// Version is the compiler version segment, e.g. gcc8_4_0.
	Version string
}

// Gcc installs the GCC cross-toolchain for one chip.
type Gcc struct {
	name     string
	opts     GccOptions
	platform platform.Platform
	layout   paths.Layout
	log      *zap.SugaredLogger
}

// NewGcc builds the installer for a chip's cross-toolchain.
func NewGcc(target chip.Chip, opts GccOptions, p platform.Platform, layout paths.Layout, log *zap.SugaredLogger) *Gcc {
	return &Gcc{name: target.Toolchain(), opts: opts, platform: p, layout: layout, log: log}
}

// Name returns the toolchain name, e.g. xtensa-esp32-elf.
func (g *Gcc) Name() string { return g.name }

// ArtifactName returns the release archive file name for the host.
func (g *Gcc) ArtifactName() string {
	return fmt.Sprintf("%s-%s-%s-%s.%s",
		g.name, g.opts.Version, g.opts.Release, g.platform.GccArch(), g.platform.GccExtension())
}

// DownloadURL returns the release archive location.
func (g *Gcc) DownloadURL() string {
	return fmt.Sprintf("%s/%s/%s", g.opts.Repository, g.opts.Release, g.ArtifactName())
}

// BinDir returns the directory holding the toolchain binaries.
// Archives nest everything under a directory named after the
// toolchain itself.
func (g *Gcc) BinDir() string {
	return filepath.Join(g.layout.ToolDir(g.name), g.name, "bin")
}

// Install unpacks the toolchain under the tools root. An existing
// tool directory counts as installed.
func (g *Gcc) Install(ctx context.Context, client *fetch.Client) (bool, error) {
	toolDir := g.layout.ToolDir(g.name)
	ok, err := paths.DirExists(toolDir)
	if err != nil {
		return false, err
	}
	if ok {
		g.log.Infof("GCC toolchain %s already installed", g.name)
		return true, nil
	}
	if _, err := client.DownloadFile(ctx, g.DownloadURL(), g.ArtifactName(), toolDir, true); err != nil {
		return false, fmt.Errorf("install %s: %w", g.name, err)
	}
	return false, nil
}

// ExportVars returns the PATH prepend for the toolchain binaries.
func (g *Gcc) ExportVars() []string {
	return []string{fmt.Sprintf("PATH=%s:$PATH", g.BinDir())}
}
