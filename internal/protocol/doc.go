// Package protocol implements the two Beckhoff discovery wire formats.
//
// # Bus Coupler Protocol (UDP 48847)
//
// Legacy bus couplers answer a fixed 16-byte memory read request:
//   - Command: 1 (uint32)
//   - Region 1: area 0, offset 0x21, 3 words (the AMS NetID)
//   - Region 2: area 100, offset 4, 10 words (the device name)
//
// The 42-byte reply carries a 4-byte value, 6 bytes padding, the NetID,
// another 6 bytes padding, and a 20-byte NUL-padded name.
//
// # UDP Discovery Protocol (UDP 48899)
//
// Embedded PCs speak a tagged request/response protocol. Every datagram has
// a 24-byte header (magic 0x71146603, invoke id, service, sender NetID,
// sender AMS port, tag count) followed by id/length/data tags. Replies set
// bit 31 of the service. The identify reply carries:
//   - TagHost: NUL-terminated host name
//   - TagVersion: major, minor, build (uint16 LE)
//
// # Reply Dispatch
//
// Which decoder applies is decided from the sender's port (ReplyKind) so a
// datagram is never parsed against both layouts.
//
//	kind := protocol.ReplyIdentify
//	reply, err := protocol.ParseReply(kind, data)
//	if err != nil {
//	    return // not a discovery reply, ignore
//	}
//	fmt.Println(reply.ID())
//
// All functions are stateless and safe for concurrent use.
package protocol
