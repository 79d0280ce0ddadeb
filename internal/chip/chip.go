package chip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Chip identifies a supported build target.
type Chip string

const (
	ESP32   Chip = "esp32"
	ESP32S2 Chip = "esp32s2"
	ESP32S3 Chip = "esp32s3"
	ESP32C3 Chip = "esp32c3"
)

// All returns every supported chip in canonical order.
func All() []Chip {
	return []Chip{ESP32, ESP32S2, ESP32S3, ESP32C3}
}

// ErrUnknownTarget marks a target token outside the supported set.
var ErrUnknownTarget = errors.New("unknown target")

// ParseTargets maps a comma- or space-delimited target list to chips.
// The token "all" selects the full canonical set and wins over every
// other token in the input, recognized or not. Otherwise tokens map
// strictly: the first unrecognized one fails the whole parse.
// Duplicates collapse to their first occurrence.
func ParseTargets(input string) ([]Chip, error) {
	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' '
	})
	for _, token := range tokens {
		if token == "all" {
			return All(), nil
		}
	}

	var chips []Chip
	seen := make(map[Chip]bool, len(tokens))
	for _, token := range tokens {
		c := Chip(token)
		switch c {
		case ESP32, ESP32S2, ESP32S3, ESP32C3:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, token)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		chips = append(chips, c)
	}
	if len(chips) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, input)
	}
	return chips, nil
}

// Toolchain returns the GCC cross-toolchain name for the chip.
func (c Chip) Toolchain() string {
	switch c {
	case ESP32:
		return "xtensa-esp32-elf"
	case ESP32S2:
		return "xtensa-esp32s2-elf"
	case ESP32S3:
		return "xtensa-esp32s3-elf"
	case ESP32C3:
		return "riscv32-esp-elf"
	}
	return ""
}

// SDK 4.4 merged the S2/S3 ULP toolchain into the esp32 one.
var ulpMerged = semver.MustParseRange(">=4.4.0")

// UlpToolchain returns the auxiliary ULP toolchain name for the chip,
// or the empty string when the chip has none. A nil sdk means the SDK
// version could not be resolved; those get the merged toolchain.
func (c Chip) UlpToolchain(sdk *semver.Version) string {
	switch c {
	case ESP32:
		return "esp32ulp-elf"
	case ESP32S2, ESP32S3:
		if sdk == nil || ulpMerged(*sdk) {
			return "esp32ulp-elf"
		}
		return "esp32s2ulp-elf"
	}
	return ""
}
