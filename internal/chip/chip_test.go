package chip

import (
	"errors"
	"strings"
	"testing"

	"github.com/blang/semver/v4"
	"github.com/google/go-cmp/cmp"
)

func TestParseTargetsSingle(t *testing.T) {
	cases := map[string]Chip{
		"esp32":   ESP32,
		"esp32s2": ESP32S2,
		"esp32s3": ESP32S3,
		"esp32c3": ESP32C3,
	}
	for input, want := range cases {
		got, err := ParseTargets(input)
		if err != nil {
			t.Fatalf("ParseTargets(%q): %v", input, err)
		}
		if len(got) != 1 || got[0] != want {
			t.Fatalf("ParseTargets(%q) = %v, expected [%s]", input, got, want)
		}
	}
}

func TestParseTargetsAll(t *testing.T) {
	inputs := []string{
		"all",
		"all,esp32",
		"esp32 all",
		"all,notachip",
	}
	for _, input := range inputs {
		got, err := ParseTargets(input)
		if err != nil {
			t.Fatalf("ParseTargets(%q): %v", input, err)
		}
		if diff := cmp.Diff(All(), got); diff != "" {
			t.Fatalf("ParseTargets(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestParseTargetsList(t *testing.T) {
	cases := []struct {
		input string
		want  []Chip
	}{
		{"esp32,esp32c3", []Chip{ESP32, ESP32C3}},
		{"esp32c3 esp32", []Chip{ESP32C3, ESP32}},
		{"esp32, esp32s3", []Chip{ESP32, ESP32S3}},
		{"esp32,esp32,esp32s2", []Chip{ESP32, ESP32S2}},
	}
	for _, tc := range cases {
		got, err := ParseTargets(tc.input)
		if err != nil {
			t.Fatalf("ParseTargets(%q): %v", tc.input, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseTargets(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestParseTargetsUnknown(t *testing.T) {
	for _, input := range []string{"esp99", "esp32,esp99", ""} {
		_, err := ParseTargets(input)
		if err == nil {
			t.Fatalf("ParseTargets(%q): expected error", input)
		}
		if !errors.Is(err, ErrUnknownTarget) {
			t.Fatalf("ParseTargets(%q): expected ErrUnknownTarget, got %v", input, err)
		}
	}

	_, err := ParseTargets("esp32,esp99")
	if err == nil || !strings.Contains(err.Error(), "esp99") {
		t.Fatalf("expected error naming the offending token, got %v", err)
	}
}

func TestToolchainNames(t *testing.T) {
	cases := map[Chip]string{
		ESP32:   "xtensa-esp32-elf",
		ESP32S2: "xtensa-esp32s2-elf",
		ESP32S3: "xtensa-esp32s3-elf",
		ESP32C3: "riscv32-esp-elf",
	}
	for chip, want := range cases {
		if got := chip.Toolchain(); got != want {
			t.Fatalf("%s.Toolchain() = %q, expected %q", chip, got, want)
		}
	}
}

func TestUlpToolchain(t *testing.T) {
	older := semver.MustParse("4.3.2")
	merged := semver.MustParse("4.4.0")
	newer := semver.MustParse("5.0.0")

	cases := []struct {
		chip Chip
		sdk  *semver.Version
		want string
	}{
		{ESP32, &older, "esp32ulp-elf"},
		{ESP32, nil, "esp32ulp-elf"},
		{ESP32S2, &older, "esp32s2ulp-elf"},
		{ESP32S2, &merged, "esp32ulp-elf"},
		{ESP32S3, &older, "esp32s2ulp-elf"},
		{ESP32S3, &newer, "esp32ulp-elf"},
		{ESP32S3, nil, "esp32ulp-elf"},
		{ESP32C3, &merged, ""},
		{ESP32C3, nil, ""},
	}
	for _, tc := range cases {
		if got := tc.chip.UlpToolchain(tc.sdk); got != tc.want {
			t.Fatalf("%s.UlpToolchain(%v) = %q, expected %q", tc.chip, tc.sdk, got, tc.want)
		}
	}
}
