package ams

// Well-known Beckhoff ports
const (
	BCUDPPort = 48847 // 0xBECF, bus coupler discovery
	TCPPort   = 48898 // 0xBF02, AMS/TCP
	UDPPort   = 48899 // 0xBF03, UDP discovery and route management
)

// UDPMagic starts every datagram of the UDP discovery protocol.
const UDPMagic uint32 = 0x71146603

// ForwarderNetID is the origin NetID used by our own requests.
var ForwarderNetID = NetID{10, 1, 0, 0, 1, 1}
