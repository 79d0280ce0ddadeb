package platform

import "testing"

func TestArchLabels(t *testing.T) {
	cases := []struct {
		triple   string
		gccArch  string
		llvmArch string
	}{
		{LinuxAmd64, "linux-amd64", "linux-amd64"},
		{LinuxArm64, "linux-arm64", LinuxArm64},
		{DarwinAmd64, "macos", "macos"},
		{DarwinArm64, "macos", "macos"},
		{WindowsMsvc, "win64", "win64"},
		{WindowsGnu, "win64", "win64"},
	}
	for _, tc := range cases {
		p := New(tc.triple)
		if got := p.GccArch(); got != tc.gccArch {
			t.Fatalf("GccArch(%s) = %q, expected %q", tc.triple, got, tc.gccArch)
		}
		if got := p.LlvmArch(); got != tc.llvmArch {
			t.Fatalf("LlvmArch(%s) = %q, expected %q", tc.triple, got, tc.llvmArch)
		}
	}
}

func TestUnknownTripleFallsThrough(t *testing.T) {
	const triple = "riscv64gc-unknown-freebsd"
	p := New(triple)

	if got := p.GccArch(); got != triple {
		t.Fatalf("GccArch = %q, expected passthrough %q", got, triple)
	}
	if got := p.LlvmArch(); got != triple {
		t.Fatalf("LlvmArch = %q, expected passthrough %q", got, triple)
	}
	if got := p.GccExtension(); got != "tar.gz" {
		t.Fatalf("GccExtension = %q, expected tar.gz", got)
	}
	if got := p.LlvmExtension(); got != "tar.xz" {
		t.Fatalf("LlvmExtension = %q, expected tar.xz", got)
	}
	if p.NeedsIdfExe || p.NeedsCcache || p.NeedsDfuUtil {
		t.Fatal("unknown triple should not require Windows extras")
	}
	if !p.UlpSupported || !p.NinjaSupported {
		t.Fatal("unknown triple should keep permissive defaults")
	}
}

func TestExtensions(t *testing.T) {
	for _, triple := range []string{WindowsMsvc, WindowsGnu} {
		p := New(triple)
		if got := p.GccExtension(); got != "zip" {
			t.Fatalf("GccExtension(%s) = %q, expected zip", triple, got)
		}
		if got := p.LlvmExtension(); got != "zip" {
			t.Fatalf("LlvmExtension(%s) = %q, expected zip", triple, got)
		}
		if got := p.InstallerScript(); got != "" {
			t.Fatalf("InstallerScript(%s) = %q, expected empty", triple, got)
		}
	}

	p := New(LinuxAmd64)
	if got := p.GccExtension(); got != "tar.gz" {
		t.Fatalf("GccExtension = %q, expected tar.gz", got)
	}
	if got := p.LlvmExtension(); got != "tar.xz" {
		t.Fatalf("LlvmExtension = %q, expected tar.xz", got)
	}
	if got := p.InstallerScript(); got != "./install.sh" {
		t.Fatalf("InstallerScript = %q, expected ./install.sh", got)
	}
}

func TestCapabilities(t *testing.T) {
	win := New(WindowsMsvc)
	if !win.NeedsIdfExe || !win.NeedsCcache || !win.NeedsDfuUtil {
		t.Fatal("Windows platform should require installer helper, ccache and dfu-util")
	}
	if !win.UlpSupported || !win.NinjaSupported {
		t.Fatal("Windows platform should support ULP and Ninja")
	}

	arm := New(LinuxArm64)
	if arm.UlpSupported {
		t.Fatal("linux-arm64 has no ULP toolchain builds")
	}
	if arm.NinjaSupported {
		t.Fatal("linux-arm64 has no Ninja builds")
	}
	if arm.NeedsIdfExe || arm.NeedsCcache || arm.NeedsDfuUtil {
		t.Fatal("linux-arm64 should not require Windows extras")
	}
}

func TestHostTriple(t *testing.T) {
	cases := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", LinuxAmd64},
		{"linux", "arm64", LinuxArm64},
		{"darwin", "amd64", DarwinAmd64},
		{"darwin", "arm64", DarwinArm64},
		{"windows", "amd64", WindowsMsvc},
		{"plan9", "386", "plan9-386"},
	}
	for _, tc := range cases {
		if got := hostTriple(tc.goos, tc.goarch); got != tc.want {
			t.Fatalf("hostTriple(%s, %s) = %q, expected %q", tc.goos, tc.goarch, got, tc.want)
		}
	}
}
