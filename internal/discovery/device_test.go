package discovery

import (
	"encoding/json"
	"net"
	"strings"
	"testing"

	"github.com/muurk/adsfwd/internal/ams"
)

func TestDevice_String(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "bus coupler",
			device: &Device{
				IfAddr: net.ParseIP("192.168.4.1"),
				Addr:   net.ParseIP("192.168.4.16"),
				IsBC:   true,
				NetID:  ams.NetID{192, 168, 4, 16, 1, 1},
				Name:   "BC9000",
			},
			expected: "BC BC9000 (192.168.4.16.1.1) at 192.168.4.16 via 192.168.4.1",
		},
		{
			name: "embedded pc",
			device: &Device{
				IfAddr:  net.ParseIP("10.0.0.1"),
				Addr:    net.ParseIP("10.0.0.5"),
				NetID:   ams.NetID{5, 1, 2, 3, 1, 1},
				Name:    "CX-1A2B3C",
				Version: "3.1.4024",
			},
			expected: "CX CX-1A2B3C, TwinCAT 3.1.4024 (5.1.2.3.1.1) at 10.0.0.5 via 10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.String(); got != tt.expected {
				t.Errorf("Device.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_Kind(t *testing.T) {
	if (&Device{IsBC: true}).Kind() != "BC" {
		t.Error("bus coupler kind should be BC")
	}
	if (&Device{}).Kind() != "CX" {
		t.Error("embedded pc kind should be CX")
	}
}

func TestDevice_RouteAddr(t *testing.T) {
	device := &Device{Addr: net.ParseIP("10.0.0.5")}
	if got := device.RouteAddr(); got != "10.0.0.5:48898" {
		t.Errorf("Device.RouteAddr() = %v, want 10.0.0.5:48898", got)
	}
}

func TestDevice_JSON(t *testing.T) {
	device := &Device{
		IfAddr: net.ParseIP("10.0.0.1").To4(),
		Addr:   net.ParseIP("10.0.0.5").To4(),
		IsBC:   true,
		NetID:  ams.NetID{5, 1, 2, 3, 1, 1},
		Name:   "BC9000",
	}

	data, err := json.Marshal(device)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	s := string(data)
	for _, want := range []string{`"netid":"5.1.2.3.1.1"`, `"addr":"10.0.0.5"`, `"is_bc":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "version") {
		t.Errorf("JSON %s should omit empty version", s)
	}
}
