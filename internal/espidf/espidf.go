package espidf

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"espkit/internal/chip"
	"espkit/internal/paths"
	"espkit/internal/platform"
)

// DefaultRepository hosts the SDK sources.
const DefaultRepository = "https://github.com/espressif/esp-idf"

// Generator names a CMake generator the SDK build may be configured for.
type Generator string

const (
	GenNinja             Generator = "Ninja"
	GenNinjaMultiConfig  Generator = "Ninja Multi-Config"
	GenUnixMakefiles     Generator = "Unix Makefiles"
	GenBorlandMakefiles  Generator = "Borland Makefiles"
	GenMSYSMakefiles     Generator = "MSYS Makefiles"
	GenMinGWMakefiles    Generator = "MinGW Makefiles"
	GenNMakeMakefiles    Generator = "NMake Makefiles"
	GenNMakeMakefilesJOM Generator = "NMake Makefiles JOM"
	GenWatcomWMake       Generator = "Watcom WMake"
)

// DefaultGenerator picks the generator for a host platform. Hosts
// without prebuilt ninja fall back to make.
func DefaultGenerator(p platform.Platform) Generator {
	if !p.NinjaSupported {
		return GenUnixMakefiles
	}
	return GenNinja
}

// Options configures an SDK install.
type Options struct {
	// RepoURL is the source repository. Empty means DefaultRepository.
	RepoURL string
	// Version is the requested revision, in ParseRef syntax.
	Version string
	// Targets are the chips the install must support.
	Targets []chip.Chip
	// Minify prunes documentation and example trees after install.
	Minify bool
	// Platform is the host the tools run on.
	Platform platform.Platform
	// Generator selects the build generator. Empty means
	// DefaultGenerator(Platform).
	Generator Generator
	// Layout locates the tool container directory.
	Layout paths.Layout
}

// EspIdf installs an SDK checkout plus the tools it needs.
type EspIdf struct {
	opts      Options
	installer Installer
	log       *zap.SugaredLogger
}

// New builds an installer-backed SDK handle.
func New(opts Options, installer Installer, log *zap.SugaredLogger) *EspIdf {
	if opts.RepoURL == "" {
		opts.RepoURL = DefaultRepository
	}
	if opts.Generator == "" {
		opts.Generator = DefaultGenerator(opts.Platform)
	}
	return &EspIdf{opts: opts, installer: installer, log: log}
}

// InstallDir derives the checkout directory for a revision of a
// repository: <base>/esp-idf-<hash of repo URL>/<sanitized ref>. Path
// separators in ref names collapse to "-" so every ref stays a single
// path segment.
func InstallDir(base, repoURL string, ref RemoteRef) string {
	h := fnv.New64a()
	h.Write([]byte(repoURL))
	repoDir := fmt.Sprintf("esp-idf-%x", h.Sum64())
	return filepath.Join(base, repoDir, sanitizeRef(ref.Name))
}

// Install materializes the SDK checkout and its tools, then minifies
// the tree when requested. It returns the checkout directory.
func (e *EspIdf) Install(ctx context.Context) (string, error) {
	ref := ParseRef(e.opts.Version)
	dir := InstallDir(e.opts.Layout.Root, e.opts.RepoURL, ref)
	e.log.Debugw("installing SDK", "ref", ref.String(), "path", dir)

	remote := Remote{RepoURL: e.opts.RepoURL, Ref: ref}
	if err := e.installer.InstallSdk(ctx, remote, dir, e.requiredTools); err != nil {
		return "", fmt.Errorf("install SDK %s: %w", ref.Name, err)
	}

	if e.opts.Minify {
		if err := minifyTree(dir); err != nil {
			return "", fmt.Errorf("minify SDK: %w", err)
		}
		e.log.Debugw("minified SDK", "path", dir)
	}
	return dir, nil
}

// minifyDirs are the subtrees a build never needs.
var minifyDirs = []string{
	"docs",
	"examples",
	filepath.Join("tools", "esp_app_trace"),
	filepath.Join("tools", "test_idf_size"),
}

// minifyTree removes the prunable subtrees of an SDK checkout. A
// missing subtree is an error: it means the checkout is not the tree
// this layout was written for.
func minifyTree(dir string) error {
	for _, sub := range minifyDirs {
		target := filepath.Join(dir, sub)
		ok, err := paths.DirExists(target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("minify %s: directory not found", target)
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("minify %s: %w", target, err)
		}
	}
	return nil
}
