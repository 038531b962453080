package discovery

import (
	"fmt"
	"net"

	"github.com/muurk/adsfwd/internal/ams"
)

// Device represents a discovered Beckhoff device
type Device struct {
	// IfAddr is the address of the local interface that reaches the device
	IfAddr net.IP `json:"if_addr"`

	// Addr is the device IPv4 address (e.g., "192.168.4.16")
	Addr net.IP `json:"addr"`

	// IsBC is true for legacy bus couplers, false for embedded PCs
	IsBC bool `json:"is_bc"`

	// NetID is the device AMS NetID (e.g., "5.12.34.56.1.1")
	NetID ams.NetID `json:"netid"`

	// Name is the bus coupler name or the embedded PC host name
	Name string `json:"name"`

	// Version is the TwinCAT version of an embedded PC, empty for bus couplers
	Version string `json:"version,omitempty"`
}

// Kind returns "BC" for bus couplers and "CX" for embedded PCs
func (d *Device) Kind() string {
	if d.IsBC {
		return "BC"
	}
	return "CX"
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	if d.IsBC {
		return fmt.Sprintf("%s %s (%s) at %s via %s", d.Kind(), d.Name, d.NetID, d.Addr, d.IfAddr)
	}
	return fmt.Sprintf("%s %s, TwinCAT %s (%s) at %s via %s", d.Kind(), d.Name, d.Version, d.NetID, d.Addr, d.IfAddr)
}

// RouteAddr returns the AMS/TCP endpoint of the device
func (d *Device) RouteAddr() string {
	return net.JoinHostPort(d.Addr.String(), fmt.Sprint(ams.TCPPort))
}
