package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvToolsPath overrides the default tools root when set.
const EnvToolsPath = "IDF_TOOLS_PATH"

// defaultDirName is the dotfile directory under the user's home.
const defaultDirName = ".espressif"

// Layout captures canonical locations under the tools root.
//
// The root holds downloaded archives under dist/, unpacked tools under
// tools/, and SDK checkouts keyed by source identity at the top level.
type Layout struct {
	Root string
}

// Resolve determines the tools root. An explicit value wins, then the
// IDF_TOOLS_PATH environment variable, then ~/.espressif. The
// environment is consulted only here; everything downstream receives
// the resolved layout.
func Resolve(explicit string) (Layout, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return Layout{}, fmt.Errorf("resolve tools root: %w", err)
		}
		return Layout{Root: abs}, nil
	}
	if env := os.Getenv(EnvToolsPath); env != "" {
		return Layout{Root: env}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("detect user home: %w", err)
	}
	return Layout{Root: filepath.Join(home, defaultDirName)}, nil
}

// ToolsDir returns the directory holding unpacked tool trees.
func (l Layout) ToolsDir() string {
	return filepath.Join(l.Root, "tools")
}

// ToolDir returns the unpack destination for a named tool.
func (l Layout) ToolDir(name string) string {
	return filepath.Join(l.Root, "tools", name)
}

// DistDir returns the archive cache directory for a named tool.
func (l Layout) DistDir(name string) string {
	return filepath.Join(l.Root, "dist", name)
}

// DistRoot returns the directory holding every cached archive.
func (l Layout) DistRoot() string {
	return filepath.Join(l.Root, "dist")
}

// EnsureRoot makes sure the tools root exists on disk.
func (l Layout) EnsureRoot() error {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return fmt.Errorf("create tools root: %w", err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
