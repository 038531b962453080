// Package ui provides terminal output components for the adsscan CLI.
//
// This package uses Bubble Tea and Lipgloss to render scan output. Nothing
// here is interactive: components render once, and the only Bubble Tea
// program is the spinner shown while a scan waits for replies.
//
// # Components
//
//   - Header: command banner showing the scan target and options
//   - Device and interface tables, rendered with lipgloss/table
//   - Result: success, warning and failure boxes
//   - ScanModel: spinner that runs a scan in a tea.Cmd
//
// # Usage Pattern
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Device scan", "adsscan scan", ui.Param{Key: "Target", Value: target.String()})
//	devices, err := ui.RunScan(os.Stderr, "Waiting for replies", func() ([]*discovery.Device, error) {
//	    return scanner.Discover(target)
//	})
//	p.PrintDevices(devices, cfg.Alias)
//
// RunScan should only be used when stdout is a terminal (see IsTerminal);
// when piping, call the scanner directly.
//
// # Logging Integration
//
// zap logging is silent unless ADSFWD_LOG_LEVEL or --log-level is set, so the
// rendered output is not interleaved with log lines.
package ui
