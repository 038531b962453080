package ui

import (
	"errors"
	"net"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/adsfwd/internal/ams"
	"github.com/muurk/adsfwd/internal/discovery"
	"github.com/muurk/adsfwd/internal/netif"
)

func testDevices() []*discovery.Device {
	return []*discovery.Device{
		{
			IfAddr: net.IPv4(192, 168, 1, 5),
			Addr:   net.IPv4(192, 168, 1, 20),
			IsBC:   true,
			NetID:  ams.NetID{192, 168, 1, 20, 1, 1},
			Name:   "BC9000",
		},
		{
			IfAddr:  net.IPv4(192, 168, 1, 5),
			Addr:    net.IPv4(192, 168, 1, 30),
			NetID:   ams.NetID{5, 1, 2, 3, 1, 1},
			Name:    "CX-0815",
			Version: "3.1.4024",
		},
	}
}

func TestRenderDeviceTable(t *testing.T) {
	out := RenderDeviceTable(testDevices(), nil)

	for _, want := range []string{"KIND", "NETID", "BC9000", "CX-0815", "5.1.2.3.1.1", "192.168.1.30", "3.1.4024"} {
		if !strings.Contains(out, want) {
			t.Errorf("device table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ALIAS") {
		t.Error("alias column shown without an alias func")
	}
}

func TestRenderDeviceTable_Alias(t *testing.T) {
	alias := func(id ams.NetID) string {
		if id == (ams.NetID{5, 1, 2, 3, 1, 1}) {
			return "line 3"
		}
		return ""
	}

	out := RenderDeviceTable(testDevices(), alias)
	if !strings.Contains(out, "ALIAS") || !strings.Contains(out, "line 3") {
		t.Errorf("device table missing alias:\n%s", out)
	}
}

func TestRenderInterfaceTable(t *testing.T) {
	out := RenderInterfaceTable([]netif.Entry{
		{Name: "eth0", Addr: net.IPv4(10, 0, 0, 5).To4(), Mask: net.IPv4(255, 255, 255, 0).To4()},
	})

	for _, want := range []string{"eth0", "10.0.0.5", "255.255.255.0", "10.0.0.255"} {
		if !strings.Contains(out, want) {
			t.Errorf("interface table missing %q:\n%s", want, out)
		}
	}
}

func TestHeader_Render(t *testing.T) {
	out := NewHeader("Device scan", "adsscan scan",
		Param{Key: "Target", Value: "interface eth0"},
		Param{Key: "Timeout", Value: "500ms"},
	).SetWidth(80).Render()

	for _, want := range []string{"DEVICE SCAN", "adsscan scan", "Target:", "interface eth0"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}

	// params keep their order
	if strings.Index(out, "Target:") > strings.Index(out, "Timeout:") {
		t.Error("header params out of order")
	}
}

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("2 devices found").AddDetail("Target", "all interfaces"),
			want:   []string{SuccessMarker, "2 devices found", "Target:", "all interfaces"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No devices found"),
			want:   []string{"WARNING", "No devices found"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Scan failed", errors.New("bind: permission denied"), ScanTroubleshooting...),
			want:   []string{"FAILED", "permission denied", "Troubleshooting:", "--dump"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(100).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("result missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestScanModel_Done(t *testing.T) {
	m := NewScanModel("Scanning", nil)

	next, cmd := m.Update(scanDoneMsg{devices: testDevices()})
	if cmd == nil {
		t.Fatal("Update(scanDoneMsg) should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Update(scanDoneMsg) command is not tea.Quit")
	}

	sm := next.(ScanModel)
	devices, err := sm.Result()
	if err != nil || len(devices) != 2 {
		t.Errorf("Result() = %v, %v", devices, err)
	}
	if sm.View() != "" {
		t.Errorf("View() after completion = %q, want empty", sm.View())
	}
}

func TestScanModel_Interrupt(t *testing.T) {
	m := NewScanModel("Scanning", nil)

	if !strings.Contains(m.View(), "Scanning") {
		t.Errorf("View() = %q, want label", m.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, err := next.(ScanModel).Result(); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Result() error = %v, want ErrInterrupted", err)
	}
}

func TestRunScanCmd(t *testing.T) {
	msg := runScan(func() ([]*discovery.Device, error) {
		return testDevices()[:1], nil
	})()
	done, ok := msg.(scanDoneMsg)
	if !ok || len(done.devices) != 1 || done.err != nil {
		t.Errorf("runScan() = %#v", msg)
	}

	msg = runScan(func() ([]*discovery.Device, error) {
		panic(&ams.InvariantError{Op: "test", Detail: "boom"})
	})()
	done, ok = msg.(scanDoneMsg)
	if !ok || done.panicked == nil {
		t.Errorf("runScan() did not capture the panic: %#v", msg)
	}
}
