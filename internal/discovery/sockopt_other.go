//go:build !unix

package discovery

import "syscall"

// enableBroadcast is a no-op where the runtime already enables broadcast on
// UDP sockets.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
