package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/adsfwd/internal/discovery"
)

// ErrInterrupted is returned by RunScan when the user quits before the scan
// finishes.
var ErrInterrupted = errors.New("scan interrupted")

// ScanFunc performs one scan
type ScanFunc func() ([]*discovery.Device, error)

// scanDoneMsg carries the scan result back into the program. A panic in the
// scan is carried too and re-raised once the terminal is restored.
type scanDoneMsg struct {
	devices  []*discovery.Device
	err      error
	panicked any
}

// ScanModel is a Bubble Tea model that shows a spinner until a scan returns.
type ScanModel struct {
	spinner spinner.Model
	label   string
	scan    ScanFunc

	devices  []*discovery.Device
	err      error
	panicked any
	done     bool
}

// NewScanModel creates a model that runs scan with label next to the spinner
func NewScanModel(label string, scan ScanFunc) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ScanModel{
		spinner: s,
		label:   label,
		scan:    scan,
	}
}

// Init implements tea.Model
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runScan(m.scan))
}

func runScan(scan ScanFunc) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = scanDoneMsg{panicked: r}
			}
		}()
		devices, err := scan()
		return scanDoneMsg{devices: devices, err: err}
	}
}

// Update implements tea.Model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.devices, m.err, m.panicked = msg.devices, msg.err, msg.panicked
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.err = ErrInterrupted
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m ScanModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), SpinnerLabelStyle.Render(m.label))
}

// Result returns what the scan produced
func (m ScanModel) Result() ([]*discovery.Device, error) {
	return m.devices, m.err
}

// RunScan runs scan behind a spinner drawn on out and returns its result.
func RunScan(out io.Writer, label string, scan ScanFunc) ([]*discovery.Device, error) {
	p := tea.NewProgram(NewScanModel(label, scan), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("spinner: %w", err)
	}

	m := final.(ScanModel)
	if m.panicked != nil {
		panic(m.panicked)
	}
	return m.Result()
}
