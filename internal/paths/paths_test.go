package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveExplicitWins(t *testing.T) {
	t.Setenv(EnvToolsPath, "/elsewhere/espressif")

	root := t.TempDir()
	layout, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if layout.Root != root {
		t.Fatalf("expected root %s, got %s", root, layout.Root)
	}
}

func TestResolveEnvOverride(t *testing.T) {
	t.Setenv(EnvToolsPath, "/custom/espressif")

	layout, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if layout.Root != "/custom/espressif" {
		t.Fatalf("expected env override, got %s", layout.Root)
	}
}

func TestResolveDefaultsToHome(t *testing.T) {
	t.Setenv(EnvToolsPath, "")

	layout, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}
	expected := filepath.Join(home, ".espressif")
	if layout.Root != expected {
		t.Fatalf("expected default root %s, got %s", expected, layout.Root)
	}
}

func TestLayoutJoins(t *testing.T) {
	layout := Layout{Root: "/opt/espressif"}

	if got := layout.ToolsDir(); got != filepath.Join("/opt/espressif", "tools") {
		t.Fatalf("ToolsDir = %s", got)
	}
	if got := layout.ToolDir("xtensa-esp32-elf"); got != filepath.Join("/opt/espressif", "tools", "xtensa-esp32-elf") {
		t.Fatalf("ToolDir = %s", got)
	}
	if got := layout.DistDir("ninja"); got != filepath.Join("/opt/espressif", "dist", "ninja") {
		t.Fatalf("DistDir = %s", got)
	}
	if got := layout.DistRoot(); got != filepath.Join("/opt/espressif", "dist") {
		t.Fatalf("DistRoot = %s", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "artifact.tar.gz")

	ok, err := FileExists(file)
	if err != nil || ok {
		t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = FileExists(file)
	if err != nil || !ok {
		t.Fatalf("expected file to exist, got ok=%v err=%v", ok, err)
	}

	ok, err = FileExists(dir)
	if err != nil || ok {
		t.Fatalf("directory should not count as file, got ok=%v err=%v", ok, err)
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := DirExists(dir)
	if err != nil || !ok {
		t.Fatalf("expected dir to exist, got ok=%v err=%v", ok, err)
	}

	ok, err = DirExists(filepath.Join(dir, "missing"))
	if err != nil || ok {
		t.Fatalf("expected missing dir, got ok=%v err=%v", ok, err)
	}
}
