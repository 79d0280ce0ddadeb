package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"espkit/internal/chip"
	"espkit/internal/config"
	"espkit/internal/espidf"
	"espkit/internal/export"
	"espkit/internal/fetch"
	"espkit/internal/logx"
	"espkit/internal/paths"
	"espkit/internal/platform"
	"espkit/internal/toolchain"
	"espkit/internal/tui"
)

var (
	installTargets    string
	installIdfVersion string
	installLlvm       string
	installExportFile string
	installMinify     bool
	installNoProgress bool
	installClearCache bool
)

var hostPlatform = platform.Host

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install toolchains for the selected targets",
		RunE:  runInstall,
	}

	cmd.Flags().StringVarP(&installTargets, "targets", "t", "esp32", `Comma- or space-separated targets, or "all"`)
	cmd.Flags().StringVarP(&installIdfVersion, "espidf-version", "e", "", "ESP-IDF revision to install (tag, branch or commit:<hash>)")
	cmd.Flags().StringVar(&installLlvm, "llvm-version", "14", "Major LLVM version to install")
	cmd.Flags().StringVarP(&installExportFile, "export-file", "f", "export-esp.sh", "File the environment exports are written to")
	cmd.Flags().BoolVarP(&installMinify, "minified-espidf", "m", false, "Prune SDK documentation and example trees after install")
	cmd.Flags().BoolVar(&installNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().BoolVar(&installClearCache, "clear-cache", false, "Delete downloaded archives after a successful install")

	return cmd
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, flush, err := logx.New(verbose)
	if err != nil {
		return err
	}
	defer flush()

	targets, err := chip.ParseTargets(installTargets)
	if err != nil {
		return err
	}

	cfgPath, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	explicit := toolsDir
	if explicit == "" {
		explicit = cfg.ToolsDir
	}
	layout, err := paths.Resolve(explicit)
	if err != nil {
		return err
	}
	if err := layout.EnsureRoot(); err != nil {
		return err
	}
	log.Debugw("resolved tools root", "path", layout.Root)

	host := hostPlatform()

	gccOpts := toolchain.GccOptions{
		Repository: cfg.GccRepository,
		Release:    cfg.GccRelease,
		Version:    cfg.GccVersion,
	}
	tools := make([]toolchain.Tool, 0, len(targets)+1)
	for _, target := range targets {
		tools = append(tools, toolchain.NewGcc(target, gccOpts, host, layout, log))
	}
	llvm, err := toolchain.NewLlvm(installLlvm, cfg.LlvmRepository, host, layout, log)
	if err != nil {
		return err
	}
	tools = append(tools, llvm)

	client := fetch.NewClient(log)

	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, installNoProgress, outputJSON)

	vars := []string{fmt.Sprintf("%s=%s", paths.EnvToolsPath, layout.Root)}
	outcomes := newInstallOutcomes()
	var installErr error

	work := func(send func(tea.Msg)) {
		display := func(tool string, status espidf.Status, _ string) {
			log.Infof("%s: %s", tool, status)
		}
		if send != nil {
			display = tui.NewInstallReporter(send).Report
		}
		report := func(tool string, status espidf.Status, detail string) {
			outcomes.record(tool, status, detail)
			display(tool, status, detail)
		}

		for _, tool := range tools {
			report(tool.Name(), espidf.StatusDownloading, "")
			cached, err := tool.Install(ctx, client)
			if err != nil {
				report(tool.Name(), espidf.StatusFailed, err.Error())
				installErr = err
				return
			}
			status := espidf.StatusInstalled
			if cached {
				status = espidf.StatusCached
			}
			report(tool.Name(), status, layout.ToolDir(tool.Name()))
			vars = append(vars, tool.ExportVars()...)
		}

		if installIdfVersion != "" {
			installer := &espidf.DistInstaller{
				Fetch:    client,
				Layout:   layout,
				Platform: host,
				BaseURL:  cfg.DistBaseURL,
				Progress: report,
				Log:      log,
			}
			sdk := espidf.New(espidf.Options{
				RepoURL:  cfg.IdfRepository,
				Version:  installIdfVersion,
				Targets:  targets,
				Minify:   installMinify,
				Platform: host,
				Layout:   layout,
			}, installer, log)

			idfPath, err := sdk.Install(ctx)
			if err != nil {
				report("esp-idf", espidf.StatusFailed, err.Error())
				installErr = err
				return
			}
			vars = append(vars, "IDF_PATH="+idfPath)
		}
	}

	if mode == tui.ModeTUI {
		fmt.Fprintf(outWriter, "Tools root: %s\n", layout.Root)
		model := buildInstallProgressModel(tools, installIdfVersion != "")
		if err := tui.RunWithWork(outWriter, model, work); err != nil {
			return err
		}
	} else {
		work(nil)
	}

	if installErr == nil {
		if err := export.WriteFile(installExportFile, vars); err != nil {
			return err
		}
		if installClearCache {
			if err := os.RemoveAll(layout.DistRoot()); err != nil {
				return fmt.Errorf("clear dist cache: %w", err)
			}
			log.Debugw("cleared dist cache", "path", layout.DistRoot())
		}
	}

	if mode == tui.ModeJSON {
		if err := writeInstallJSON(cmd, layout.Root, installExportFile, outcomes); err != nil {
			return err
		}
		return installErr
	}

	if mode == tui.ModeTUI {
		printInstallSummary(outWriter, outcomes.counts())
	} else {
		writeInstallTable(cmd, layout.Root, outcomes)
	}
	if installErr != nil {
		return installErr
	}
	fmt.Fprintf(outWriter, "Run '. %s' to use the installed tools in this shell\n", installExportFile)
	return nil
}

func buildInstallProgressModel(tools []toolchain.Tool, withSdk bool) tui.ProgressModel {
	model := tui.NewProgressModel("install", tui.InstallColumns())
	for _, tool := range tools {
		model.AddRow(tool.Name(), []string{tool.Name(), "pending", "-"})
	}
	if withSdk {
		model.AddRow("esp-idf", []string{"esp-idf", "pending", "-"})
	}
	return model
}

type installResult struct {
	Tool   string `json:"tool"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type installCounts struct {
	Installed int `json:"installed"`
	Cached    int `json:"cached"`
	Failed    int `json:"failed"`
}

// installOutcomes keeps the latest status per tool in first-seen
// order.
type installOutcomes struct {
	order   []string
	results map[string]*installResult
}

func newInstallOutcomes() *installOutcomes {
	return &installOutcomes{results: make(map[string]*installResult)}
}

func (o *installOutcomes) record(tool string, status espidf.Status, detail string) {
	r, ok := o.results[tool]
	if !ok {
		r = &installResult{Tool: tool}
		o.results[tool] = r
		o.order = append(o.order, tool)
	}
	r.Status = string(status)
	r.Detail = detail
}

func (o *installOutcomes) list() []installResult {
	out := make([]installResult, 0, len(o.order))
	for _, tool := range o.order {
		out = append(out, *o.results[tool])
	}
	return out
}

func (o *installOutcomes) counts() installCounts {
	var c installCounts
	for _, tool := range o.order {
		switch espidf.Status(o.results[tool].Status) {
		case espidf.StatusInstalled:
			c.Installed++
		case espidf.StatusCached:
			c.Cached++
		case espidf.StatusFailed:
			c.Failed++
		}
	}
	return c
}

func writeInstallJSON(cmd *cobra.Command, root, exportFile string, outcomes *installOutcomes) error {
	payload := struct {
		ToolsRoot  string          `json:"tools_root"`
		ExportFile string          `json:"export_file"`
		Results    []installResult `json:"results"`
		Summary    installCounts   `json:"summary"`
	}{
		ToolsRoot:  root,
		ExportFile: exportFile,
		Results:    outcomes.list(),
		Summary:    outcomes.counts(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode install json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeInstallTable(cmd *cobra.Command, root string, outcomes *installOutcomes) {
	fmt.Fprintf(cmd.OutOrStdout(), "Tools root: %s\n", root)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tSTATUS\tDETAIL")
	for _, r := range outcomes.list() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Tool, r.Status, tui.NonEmptyOrDash(r.Detail))
	}
	w.Flush()

	printInstallSummary(cmd.OutOrStdout(), outcomes.counts())
}

func printInstallSummary(w io.Writer, c installCounts) {
	fmt.Fprintf(w, "Installed: %d, Cached: %d, Failed: %d\n", c.Installed, c.Cached, c.Failed)
}
