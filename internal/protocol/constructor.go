package protocol

import (
	"encoding/binary"

	"github.com/muurk/adsfwd/internal/ams"
)

// Request constructors for the two discovery protocols

// BuildBCRequest returns the fixed bus coupler request: read 3 words at 0:0x21 (NetID)
// and 10 words at 100:4 (device name).
//
// Layout (little-endian, 16 bytes):
//
//	[0-3]   1       Command (uint32)
//	[4-5]   0       Area of first region
//	[6-7]   0x21    Offset of first region
//	[8-9]   3       Word count of first region
//	[10-11] 100     Area of second region
//	[12-13] 4       Offset of second region
//	[14-15] 10      Word count of second region
func BuildBCRequest() []byte {
	msg := make([]byte, BCRequestSize)
	binary.LittleEndian.PutUint32(msg[0:4], 1)
	binary.LittleEndian.PutUint16(msg[4:6], 0)
	binary.LittleEndian.PutUint16(msg[6:8], 0x21)
	binary.LittleEndian.PutUint16(msg[8:10], 3)
	binary.LittleEndian.PutUint16(msg[10:12], 100)
	binary.LittleEndian.PutUint16(msg[12:14], 4)
	binary.LittleEndian.PutUint16(msg[14:16], 10)
	return msg
}

// UDPMessage builds a datagram for the UDP discovery protocol.
//
// Header (little-endian, 24 bytes):
//
//	[0-3]   magic      UDPMagic
//	[4-7]   invoke id  Echoed by the device
//	[8-11]  service    ServiceIdentify, ServiceAddRoute, ...
//	[12-17] netid      Sender's AMS NetID
//	[18-19] port       Sender's AMS port
//	[20-23] count      Number of tags that follow
//
// Each tag is id(2) + length(2) + data.
type UDPMessage struct {
	buf []byte
}

// NewUDPMessage starts a message with an empty tag list.
func NewUDPMessage(service uint32, netID ams.NetID, port uint16, invokeID uint32) *UDPMessage {
	buf := make([]byte, UDPHeaderSize, 128)
	binary.LittleEndian.PutUint32(buf[0:4], ams.UDPMagic)
	binary.LittleEndian.PutUint32(buf[4:8], invokeID)
	binary.LittleEndian.PutUint32(buf[8:12], service)
	copy(buf[12:18], netID[:])
	binary.LittleEndian.PutUint16(buf[18:20], port)
	return &UDPMessage{buf: buf}
}

// AddBytes appends a raw tag.
func (m *UDPMessage) AddBytes(tag uint16, data []byte) *UDPMessage {
	var hdr [4]byte
	binary.LittleEndian.PutUint16(hdr[0:2], tag)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(data)))
	m.buf = append(m.buf, hdr[:]...)
	m.buf = append(m.buf, data...)

	count := binary.LittleEndian.Uint32(m.buf[20:24])
	binary.LittleEndian.PutUint32(m.buf[20:24], count+1)
	return m
}

// AddString appends a NUL-terminated string tag.
func (m *UDPMessage) AddString(tag uint16, s string) *UDPMessage {
	data := make([]byte, len(s)+1)
	copy(data, s)
	return m.AddBytes(tag, data)
}

// Bytes returns the encoded datagram.
func (m *UDPMessage) Bytes() []byte {
	return m.buf
}

// BuildIdentifyRequest returns the "identify" request sent to UDPPort.
func BuildIdentifyRequest() []byte {
	return NewUDPMessage(ServiceIdentify, ams.ForwarderNetID, IdentifyPort, 0).Bytes()
}
