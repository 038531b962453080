package ams

import (
	"encoding/binary"
	"net"
)

// InSameNet reports whether a and b fall in the same subnet under mask.
// All three must be IPv4 addresses; anything else yields false.
func InSameNet(a, b, mask net.IP) bool {
	a4, b4, m4 := a.To4(), b.To4(), mask.To4()
	if a4 == nil || b4 == nil || m4 == nil {
		return false
	}
	m := binary.BigEndian.Uint32(m4)
	return binary.BigEndian.Uint32(a4)&m == binary.BigEndian.Uint32(b4)&m
}
