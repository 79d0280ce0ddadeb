package espidf

import (
	"github.com/blang/semver/v4"
)

// ToolPlan lists what an SDK checkout needs besides its own sources.
type ToolPlan struct {
	// SubTools are dist-installed tool names, install order preserved.
	// Names may repeat; installers skip what they already placed.
	SubTools []string
	// BundledCmake asks for the pinned standalone cmake used by SDKs
	// whose tools index predates a cmake entry.
	BundledCmake bool
}

// The SDK tools index gained a cmake entry in 4.4.
var cmakeInIndex = semver.MustParseRange(">=4.4.0")

// requiredTools assembles the tool plan for a checkout: per-chip
// compiler and ULP toolchains, cmake, openocd, the host's extra
// binaries and the build generator.
func (e *EspIdf) requiredTools(c Checkout, sdk *semver.Version) (ToolPlan, error) {
	var plan ToolPlan
	for _, target := range e.opts.Targets {
		plan.SubTools = append(plan.SubTools, target.Toolchain())
	}
	if e.opts.Platform.UlpSupported {
		for _, target := range e.opts.Targets {
			if ulp := target.UlpToolchain(sdk); ulp != "" {
				plan.SubTools = append(plan.SubTools, ulp)
			}
		}
	}
	if sdk != nil && cmakeInIndex(*sdk) {
		plan.SubTools = append(plan.SubTools, "cmake")
	} else {
		plan.BundledCmake = true
	}
	plan.SubTools = append(plan.SubTools, "openocd-esp32")
	if e.opts.Platform.NeedsIdfExe {
		plan.SubTools = append(plan.SubTools, "idf-exe")
	}
	if e.opts.Platform.NeedsCcache {
		plan.SubTools = append(plan.SubTools, "ccache")
	}
	if e.opts.Platform.NeedsDfuUtil {
		plan.SubTools = append(plan.SubTools, "dfu-util")
	}
	if e.opts.Generator == GenNinja {
		plan.SubTools = append(plan.SubTools, "ninja")
	}
	return plan, nil
}
