package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/adsfwd/internal/ams"
	"github.com/muurk/adsfwd/internal/discovery"
	"github.com/muurk/adsfwd/internal/netif"
)

// AliasFunc looks up the user label of a device. It may return "".
type AliasFunc func(ams.NetID) string

func newTable(headers []string, muted map[int]bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case muted[col]:
				return TableMutedCellStyle
			default:
				return TableCellStyle
			}
		}).
		Headers(headers...)
}

// RenderDeviceTable renders discovered devices one per row. The alias column
// is only shown when alias is non-nil.
func RenderDeviceTable(devices []*discovery.Device, alias AliasFunc) string {
	headers := []string{"KIND", "NAME", "NETID", "ADDRESS", "TWINCAT", "INTERFACE"}
	if alias != nil {
		headers = append(headers, "ALIAS")
	}

	t := newTable(headers, map[int]bool{0: true, 5: true})
	for _, d := range devices {
		version := d.Version
		if version == "" {
			version = "-"
		}
		row := []string{d.Kind(), d.Name, d.NetID.String(), d.Addr.String(), version, d.IfAddr.String()}
		if alias != nil {
			row = append(row, alias(d.NetID))
		}
		t.Row(row...)
	}

	return t.String()
}

// RenderInterfaceTable renders the interfaces a scan can broadcast on
func RenderInterfaceTable(entries []netif.Entry) string {
	t := newTable([]string{"INTERFACE", "ADDRESS", "NETMASK", "BROADCAST"}, map[int]bool{2: true, 3: true})
	for _, e := range entries {
		t.Row(e.Name, e.Addr.String(), e.Mask.String(), e.Broadcast().String())
	}
	return t.String()
}
