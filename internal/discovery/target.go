package discovery

import (
	"fmt"
	"net"
)

// TargetKind selects the probing strategy of a scan
type TargetKind int

const (
	// TargetEverything broadcasts on every known interface in turn
	TargetEverything TargetKind = iota
	// TargetInterface broadcasts on one named interface
	TargetInterface
	// TargetAddress queries one device address and waits for one reply
	TargetAddress
)

// Target describes what a single Scan call queries
type Target struct {
	Kind      TargetKind
	Interface string // TargetInterface only
	Addr      net.IP // TargetAddress only
}

// Everything targets all local interfaces
func Everything() Target {
	return Target{Kind: TargetEverything}
}

// Interface targets the broadcast domain of one interface
func Interface(name string) Target {
	return Target{Kind: TargetInterface, Interface: name}
}

// Address targets a single device
func Address(ip net.IP) Target {
	return Target{Kind: TargetAddress, Addr: ip}
}

// String returns a human-readable description of the target
func (t Target) String() string {
	switch t.Kind {
	case TargetInterface:
		return fmt.Sprintf("interface %s", t.Interface)
	case TargetAddress:
		return fmt.Sprintf("address %s", t.Addr)
	default:
		return "all interfaces"
	}
}
