// Package ams implements the addressing and framing primitives of the
// Beckhoff ADS/AMS protocol family.
//
// # AMS NetID
//
// Every ADS endpoint is addressed by a 6-byte hierarchical NetID, usually
// written as six dot-separated decimal bytes (e.g. "5.12.34.56.1.1").
// Components omitted at the end of a string default to 1, so "5.12.34.56"
// parses to the same NetID as above.
//
//	id, err := ams.ParseNetID("5.12.34.56")
//	if err != nil {
//	    var fe *ams.FormatError
//	    errors.As(err, &fe) // invalid user input, report and continue
//	}
//	fmt.Println(id) // 5.12.34.56.1.1
//
// # Message Envelope
//
// An AMS/TCP message starts with a 6-byte prefix (2 reserved bytes and a
// little-endian uint32 length of everything that follows), then the AMS
// header. The forwarder only touches two header fields:
//   - Bytes 6-11: destination NetID
//   - Bytes 14-19: source NetID
//
// Message wraps such a buffer and lets callers rewrite those fields in
// place. Construction rejects buffers whose length field disagrees with
// their size.
//
// # Error Tiers
//
// The package distinguishes between:
//   - FormatError: bad NetID text from a user or config file. Recoverable.
//   - InvariantError: a broken internal precondition (inconsistent envelope,
//     wrong-sized identifier slice). Callers must not try to recover.
//
// # Diagnostics
//
// Hexdump prints datagrams in a 16-bytes-per-line hex+ASCII layout for
// operator debugging.
package ams
