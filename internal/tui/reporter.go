package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"espkit/internal/espidf"
)

// Table headers shared by the install display and its reporter.
const (
	ColTool   = "TOOL"
	ColStatus = "STATUS"
	ColDetail = "DETAIL"
)

// InstallColumns returns the column layout for install progress.
func InstallColumns() []Column {
	return []Column{
		{Header: ColTool, Width: 24},
		{Header: ColStatus, Width: 12},
		{Header: ColDetail, Width: 48},
	}
}

// InstallReporter bridges per-tool install updates onto table rows.
// Its Report method matches espidf.ProgressFunc, so it plugs straight
// into an installer.
type InstallReporter struct {
	send func(tea.Msg)
}

// NewInstallReporter constructs a reporter that forwards updates
// through send.
func NewInstallReporter(send func(tea.Msg)) *InstallReporter {
	return &InstallReporter{send: send}
}

// Report forwards one tool's status change as a row update.
func (r *InstallReporter) Report(tool string, status espidf.Status, detail string) {
	r.send(RowUpdateMsg{
		Key: tool,
		Fields: map[string]string{
			ColTool:   tool,
			ColStatus: string(status),
			ColDetail: detail,
		},
	})
}
