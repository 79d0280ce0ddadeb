package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"espkit/internal/fetch"
	"espkit/internal/paths"
	"espkit/internal/platform"
)

// llvmToolName is the directory the LLVM fork installs under.
const llvmToolName = "xtensa-esp32-elf-clang"

// llvmReleases maps a major LLVM version to its release tag.
var llvmReleases = map[string]string{
	"13": "esp-13.0.0-20211203",
	"14": "esp-14.0.0-20220415",
}

// ErrUnknownLlvmVersion marks an LLVM version with no published
// release.
var ErrUnknownLlvmVersion = errors.New("unsupported LLVM version")

// ResolveLlvmRelease maps a major LLVM version to its release tag.
func ResolveLlvmRelease(version string) (string, error) {
	release, ok := llvmReleases[version]
	if !ok {
		supported := make([]string, 0, len(llvmReleases))
		for v := range llvmReleases {
			supported = append(supported, v)
		}
		sort.Strings(supported)
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLlvmVersion, version, strings.Join(supported, ", "))
	}
	return release, nil
}

// Llvm installs the Xtensa LLVM fork.
type Llvm struct {
	release  string
	repoURL  string
	platform platform.Platform
	layout   paths.Layout
	log      *zap.SugaredLogger
}

// NewLlvm builds the installer for a major LLVM version.
func NewLlvm(version, repoURL string, p platform.Platform, layout paths.Layout, log *zap.SugaredLogger) (*Llvm, error) {
	release, err := ResolveLlvmRelease(version)
	if err != nil {
		return nil, err
	}
	return &Llvm{release: release, repoURL: repoURL, platform: p, layout: layout, log: log}, nil
}

// Name returns the install directory name of the LLVM fork.
func (l *Llvm) Name() string { return llvmToolName }

// ArtifactName returns the release archive file name for the host.
func (l *Llvm) ArtifactName() string {
	return fmt.Sprintf("xtensa-esp32-elf-llvm%s-%s-%s.%s",
		underscored(l.release), l.release, l.platform.LlvmArch(), l.platform.LlvmExtension())
}

// DownloadURL returns the release archive location.
func (l *Llvm) DownloadURL() string {
	return fmt.Sprintf("%s/%s/%s", l.repoURL, l.release, l.ArtifactName())
}

// LibDir returns the directory holding libclang. Archives nest
// everything under the tool's own name.
func (l *Llvm) LibDir() string {
	return filepath.Join(l.layout.ToolDir(llvmToolName), llvmToolName, "lib")
}

// Install unpacks the LLVM fork under the tools root. An existing
// tool directory counts as installed.
func (l *Llvm) Install(ctx context.Context, client *fetch.Client) (bool, error) {
	toolDir := l.layout.ToolDir(llvmToolName)
	ok, err := paths.DirExists(toolDir)
	if err != nil {
		return false, err
	}
	if ok {
		l.log.Infof("LLVM %s already installed", l.release)
		return true, nil
	}
	if _, err := client.DownloadFile(ctx, l.DownloadURL(), l.ArtifactName(), toolDir, true); err != nil {
		return false, fmt.Errorf("install %s: %w", llvmToolName, err)
	}
	return false, nil
}

// ExportVars returns the LIBCLANG_PATH assignment clang tooling
// reads.
func (l *Llvm) ExportVars() []string {
	return []string{fmt.Sprintf("LIBCLANG_PATH=%s", l.LibDir())}
}

// underscored turns a release tag like esp-13.0.0-20211203 into the
// 13_0_0 segment artifact names embed.
func underscored(release string) string {
	v := strings.TrimPrefix(release, "esp-")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	return strings.ReplaceAll(v, ".", "_")
}
