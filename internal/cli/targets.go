package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"espkit/internal/chip"
	"espkit/internal/tui"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List supported build targets",
		RunE:  runTargets,
	}
}

type targetInfo struct {
	Target       string `json:"target"`
	Toolchain    string `json:"toolchain"`
	UlpToolchain string `json:"ulp_toolchain,omitempty"`
}

func runTargets(cmd *cobra.Command, _ []string) error {
	infos := make([]targetInfo, 0, len(chip.All()))
	for _, c := range chip.All() {
		infos = append(infos, targetInfo{
			Target:       string(c),
			Toolchain:    c.Toolchain(),
			UlpToolchain: c.UlpToolchain(nil),
		})
	}

	if outputJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("encode targets json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tTOOLCHAIN\tULP")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Target, info.Toolchain, tui.NonEmptyOrDash(info.UlpToolchain))
	}
	return w.Flush()
}
