package espidf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"
	"go.uber.org/zap"

	"espkit/internal/fetch"
	"espkit/internal/paths"
	"espkit/internal/platform"
)

// Remote pairs a repository with a revision.
type Remote struct {
	RepoURL string
	Ref     RemoteRef
}

// Checkout is a materialized SDK source tree.
type Checkout struct {
	Dir string
	Ref RemoteRef
}

// ToolsFunc computes the tool plan for a materialized checkout. The
// version is nil when the ref does not name one.
type ToolsFunc func(c Checkout, sdk *semver.Version) (ToolPlan, error)

// Installer materializes an SDK checkout at installDir and installs
// the tools the plan callback asks for.
type Installer interface {
	InstallSdk(ctx context.Context, remote Remote, installDir string, tools ToolsFunc) error
}

// Status is a per-tool install stage.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusExtracting  Status = "extracting"
	StatusInstalled   Status = "installed"
	StatusCached      Status = "cached"
	StatusFailed      Status = "failed"
)

// ProgressFunc receives per-tool lifecycle updates. Nil disables
// reporting.
type ProgressFunc func(tool string, status Status, detail string)

// sdkToolName labels the checkout itself in progress updates.
const sdkToolName = "esp-idf"

// bundledCmakeVersion pins the standalone cmake installed for SDKs
// whose tools index has no cmake entry.
const bundledCmakeVersion = "3.23.1"

// DistInstaller materializes SDK checkouts from source archives and
// tools from a prebuilt dist mirror. All fields except Progress must
// be set.
type DistInstaller struct {
	Fetch    *fetch.Client
	Layout   paths.Layout
	Platform platform.Platform
	// BaseURL is the dist mirror root, without trailing slash.
	BaseURL  string
	Progress ProgressFunc
	Log      *zap.SugaredLogger
}

// InstallSdk places the checkout, asks the plan callback what the
// checkout needs, and installs each tool once.
func (d *DistInstaller) InstallSdk(ctx context.Context, remote Remote, installDir string, tools ToolsFunc) error {
	if err := d.ensureCheckout(ctx, remote, installDir); err != nil {
		d.emit(sdkToolName, StatusFailed, err.Error())
		return err
	}

	plan, err := tools(Checkout{Dir: installDir, Ref: remote.Ref}, remote.Ref.Version())
	if err != nil {
		return err
	}
	names := plan.SubTools
	if plan.BundledCmake {
		names = append(names, "cmake")
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		version := sanitizeRef(remote.Ref.Name)
		if name == "cmake" && plan.BundledCmake {
			version = bundledCmakeVersion
		}
		if err := d.installTool(ctx, name, version); err != nil {
			d.emit(name, StatusFailed, err.Error())
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}

func (d *DistInstaller) ensureCheckout(ctx context.Context, remote Remote, installDir string) error {
	ok, err := paths.DirExists(installDir)
	if err != nil {
		return err
	}
	if ok {
		d.Log.Debugw("SDK already installed", "path", installDir)
		d.emit(sdkToolName, StatusCached, installDir)
		return nil
	}

	fileName := fmt.Sprintf("esp-idf-%s.tar.gz", sanitizeRef(remote.Ref.Name))
	d.emit(sdkToolName, StatusDownloading, fileName)
	archive, err := d.Fetch.DownloadFile(ctx, archiveURL(remote), fileName, d.Layout.DistDir(sdkToolName), false)
	if err != nil {
		return err
	}

	d.emit(sdkToolName, StatusExtracting, installDir)
	staging := installDir + ".extract"
	defer os.RemoveAll(staging)
	if err := d.Fetch.Extract(archive, staging); err != nil {
		return err
	}
	if err := commitCheckout(staging, installDir); err != nil {
		return err
	}
	d.emit(sdkToolName, StatusInstalled, installDir)
	return nil
}

// installTool downloads a dist archive into the dist cache and
// extracts it into the tool's directory. A tool directory that
// already exists is left alone.
func (d *DistInstaller) installTool(ctx context.Context, name, version string) error {
	toolDir := d.Layout.ToolDir(name)
	ok, err := paths.DirExists(toolDir)
	if err != nil {
		return err
	}
	if ok {
		d.Log.Debugw("tool already installed", "tool", name, "path", toolDir)
		d.emit(name, StatusCached, toolDir)
		return nil
	}

	fileName := fmt.Sprintf("%s-%s-%s.%s", name, version, d.Platform.GccArch(), d.Platform.GccExtension())
	url := fmt.Sprintf("%s/%s/%s", d.BaseURL, name, fileName)
	d.emit(name, StatusDownloading, fileName)
	archive, err := d.Fetch.DownloadFile(ctx, url, fileName, d.Layout.DistDir(name), false)
	if err != nil {
		return err
	}
	d.emit(name, StatusExtracting, toolDir)
	if err := d.Fetch.Extract(archive, toolDir); err != nil {
		return err
	}
	d.emit(name, StatusInstalled, toolDir)
	return nil
}

// archiveURL builds the source archive location for a revision. Tag
// and branch tarballs live under refs/, commit tarballs under the
// bare hash.
func archiveURL(remote Remote) string {
	base := strings.TrimSuffix(remote.RepoURL, ".git")
	switch remote.Ref.Kind {
	case RefTag:
		return base + "/archive/refs/tags/" + remote.Ref.Name + ".tar.gz"
	case RefBranch:
		return base + "/archive/refs/heads/" + remote.Ref.Name + ".tar.gz"
	default:
		return base + "/archive/" + remote.Ref.Name + ".tar.gz"
	}
}

// commitCheckout moves an extracted archive into place. Source
// tarballs nest everything under one top-level directory, which
// becomes the checkout itself.
func commitCheckout(staging, installDir string) error {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(installDir), 0o755); err != nil {
		return err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return os.Rename(filepath.Join(staging, entries[0].Name()), installDir)
	}
	return os.Rename(staging, installDir)
}

func (d *DistInstaller) emit(tool string, status Status, detail string) {
	if d.Progress != nil {
		d.Progress(tool, status, detail)
	}
}
