package platform

import "runtime"

// Triples Espressif publishes toolchain artifacts for.
const (
	LinuxAmd64  = "x86_64-unknown-linux-gnu"
	LinuxArm64  = "aarch64-unknown-linux-gnu"
	DarwinAmd64 = "x86_64-apple-darwin"
	DarwinArm64 = "aarch64-apple-darwin"
	WindowsMsvc = "x86_64-pc-windows-msvc"
	WindowsGnu  = "x86_64-pc-windows-gnu"
)

// Platform carries a host triple plus the capabilities that vary by
// host. Unknown triples keep the permissive defaults: arch labels fall
// through to the triple itself and no Windows-only extras are added.
// This is deliberately looser than target parsing, which fails hard.
type Platform struct {
	Triple string

	// Windows hosts need helper binaries the Unix install flow does not.
	NeedsIdfExe  bool
	NeedsCcache  bool
	NeedsDfuUtil bool

	// Espressif ships no ULP or Ninja builds for linux-arm64.
	UlpSupported   bool
	NinjaSupported bool
}

// New resolves the capability set for a triple.
func New(triple string) Platform {
	windows := isWindows(triple)
	return Platform{
		Triple:         triple,
		NeedsIdfExe:    windows,
		NeedsCcache:    windows,
		NeedsDfuUtil:   windows,
		UlpSupported:   triple != LinuxArm64,
		NinjaSupported: triple != LinuxArm64,
	}
}

// Host resolves the platform of the running process.
func Host() Platform {
	return New(hostTriple(runtime.GOOS, runtime.GOARCH))
}

func hostTriple(goos, goarch string) string {
	switch goos + "/" + goarch {
	case "linux/amd64":
		return LinuxAmd64
	case "linux/arm64":
		return LinuxArm64
	case "darwin/amd64":
		return DarwinAmd64
	case "darwin/arm64":
		return DarwinArm64
	case "windows/amd64":
		return WindowsMsvc
	}
	return goos + "-" + goarch
}

// GccArch returns the artifact architecture label used in GCC
// toolchain archive names.
func (p Platform) GccArch() string {
	switch p.Triple {
	case DarwinAmd64, DarwinArm64:
		return "macos"
	case LinuxAmd64:
		return "linux-amd64"
	case LinuxArm64:
		return "linux-arm64"
	case WindowsMsvc, WindowsGnu:
		return "win64"
	}
	return p.Triple
}

// LlvmArch returns the artifact architecture label used in LLVM archive
// names. There are no linux-arm64 LLVM builds, so that triple falls
// through unchanged.
func (p Platform) LlvmArch() string {
	switch p.Triple {
	case DarwinAmd64, DarwinArm64:
		return "macos"
	case LinuxAmd64:
		return "linux-amd64"
	case WindowsMsvc, WindowsGnu:
		return "win64"
	}
	return p.Triple
}

// GccExtension returns the archive extension GCC artifacts use on the
// host.
func (p Platform) GccExtension() string {
	if isWindows(p.Triple) {
		return "zip"
	}
	return "tar.gz"
}

// LlvmExtension returns the archive extension LLVM artifacts use on the
// host.
func (p Platform) LlvmExtension() string {
	if isWindows(p.Triple) {
		return "zip"
	}
	return "tar.xz"
}

// InstallerScript returns the entry point bundled inside toolchain
// archives, empty on Windows where the archives ship none.
func (p Platform) InstallerScript() string {
	if isWindows(p.Triple) {
		return ""
	}
	return "./install.sh"
}

func isWindows(triple string) bool {
	return triple == WindowsMsvc || triple == WindowsGnu
}
