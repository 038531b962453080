// Package discovery finds Beckhoff devices on the local networks.
//
// Two kinds of devices answer, each to its own request:
//   - Bus couplers listen on UDP port 48847 and answer a fixed 16 byte
//     register read with their NetID and name.
//   - Embedded PCs listen on UDP port 48899 and answer the identify
//     operation of the UDP protocol with their host name, NetID and
//     TwinCAT version.
//
// Every scan sends both requests from one socket and tells the replies apart
// by their source port.
//
// # Scan Targets
//
//   - Everything: broadcast on each local interface in turn
//   - Interface: broadcast on one named interface
//   - Address: query a single device and wait for its first reply
//
// A scan ends when no reply arrives within ReplyTimeout.
//
// # Usage Example
//
//	s := discovery.NewScanner(false)
//	for _, d := range s.Scan(discovery.Everything()) {
//	    fmt.Println(d)
//	}
//
// # Errors
//
// Scan is best effort: socket and setup failures are logged and the devices
// found so far are returned. Discover returns the same failures as
// *ScanError. A reply from an address that no local interface reaches is
// reported as *ams.InvariantError by Discover and panics in Scan.
//
// # Network Requirements
//
//   - Broadcast must be permitted on the scanned interfaces
//   - Firewalls must let replies from ports 48847 and 48899 through
//
// # Thread Safety
//
// A Scanner holds no per-scan state and may be used from several goroutines.
// Dump output written concurrently to the same writer will interleave.
package discovery
