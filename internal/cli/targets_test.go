package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTargetsCommandTableOutput(t *testing.T) {
	resetCLIState(t)

	cmd := newTargetsCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("targets returned error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "TARGET") || !strings.Contains(got, "TOOLCHAIN") {
		t.Fatalf("expected table headers, got %q", got)
	}
	for _, want := range []string{"esp32", "esp32s2", "esp32s3", "esp32c3", "xtensa-esp32-elf", "riscv32-esp-elf", "esp32ulp-elf"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
}

func TestTargetsCommandJSONOutput(t *testing.T) {
	resetCLIState(t)

	cmd := newTargetsCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)

	outputJSON = true

	if err := cmd.Execute(); err != nil {
		t.Fatalf("targets returned error: %v", err)
	}

	var infos []struct {
		Target       string `json:"target"`
		Toolchain    string `json:"toolchain"`
		UlpToolchain string `json:"ulp_toolchain"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &infos); err != nil {
		t.Fatalf("parse targets json: %v\n%s", err, stdout.String())
	}
	if len(infos) != 4 {
		t.Fatalf("expected 4 targets, got %d", len(infos))
	}
	if infos[0].Target != "esp32" || infos[0].Toolchain != "xtensa-esp32-elf" || infos[0].UlpToolchain != "esp32ulp-elf" {
		t.Fatalf("unexpected first target: %+v", infos[0])
	}
	if infos[3].Target != "esp32c3" || infos[3].Toolchain != "riscv32-esp-elf" || infos[3].UlpToolchain != "" {
		t.Fatalf("unexpected riscv target: %+v", infos[3])
	}
}
