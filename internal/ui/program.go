package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/adsfwd/internal/discovery"
	"github.com/muurk/adsfwd/internal/netif"
)

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintDevices prints the device table
func (p *Printer) PrintDevices(devices []*discovery.Device, alias AliasFunc) {
	p.Println(RenderDeviceTable(devices, alias))
}

// PrintInterfaces prints the interface table
func (p *Printer) PrintInterfaces(entries []netif.Entry) {
	p.Println(RenderInterfaceTable(entries))
}
