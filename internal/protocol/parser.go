package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/muurk/adsfwd/internal/ams"
)

// Sizes and constants of both discovery protocols
const (
	BCRequestSize = 16
	BCReplySize   = 42 // value(4) + pad(6) + netid(6) + pad(6) + name(20)
	UDPHeaderSize = 24

	// IdentifyPort is the AMS port announced in our identify requests
	IdentifyPort = 10000
)

// UDP protocol services
const (
	ServiceIdentify uint32 = 1
	ServiceAddRoute uint32 = 6

	// ServiceResponse is or'ed into the service of every reply
	ServiceResponse uint32 = 0x80000000
)

// UDP protocol tags
const (
	TagStatus    uint16 = 1
	TagPassword  uint16 = 2
	TagVersion   uint16 = 3
	TagOSVersion uint16 = 4
	TagHost      uint16 = 5
	TagNetID     uint16 = 7
	TagOptions   uint16 = 9
	TagRouteName uint16 = 12
	TagUserName  uint16 = 13
)

// ReplyKind tells which decoder a datagram goes to. It is decided from the
// sender's port before any bytes are looked at.
type ReplyKind int

const (
	// ReplyUnknown datagrams are ignored
	ReplyUnknown ReplyKind = iota
	// ReplyBC comes from a bus coupler's discovery port
	ReplyBC
	// ReplyIdentify comes from the UDP discovery port of an embedded PC
	ReplyIdentify
)

// String returns the name of the reply kind
func (k ReplyKind) String() string {
	switch k {
	case ReplyBC:
		return "bc"
	case ReplyIdentify:
		return "identify"
	default:
		return "unknown"
	}
}

// Reply is a decoded discovery reply
type Reply interface {
	Kind() ReplyKind
	ID() ams.NetID
	String() string
}

// BCReply is the answer of a bus coupler to BuildBCRequest
type BCReply struct {
	Value uint32    // First word of the reply, unused
	NetID ams.NetID // Bytes 10-15
	Name  string    // Bytes 22-41, NUL padding removed
}

func (r *BCReply) Kind() ReplyKind { return ReplyBC }

func (r *BCReply) ID() ams.NetID { return r.NetID }

func (r *BCReply) String() string {
	return fmt.Sprintf("BCReply{name=%q, netid=%s}", r.Name, r.NetID)
}

// Version is a TwinCAT version as reported in TagVersion
type Version struct {
	Major byte
	Minor byte
	Build uint16
}

// String formats the version as "major.minor.build"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// IdentifyReply is the answer of an embedded PC to BuildIdentifyRequest
type IdentifyReply struct {
	NetID   ams.NetID
	Port    uint16
	Host    string
	Version Version
}

func (r *IdentifyReply) Kind() ReplyKind { return ReplyIdentify }

func (r *IdentifyReply) ID() ams.NetID { return r.NetID }

func (r *IdentifyReply) String() string {
	return fmt.Sprintf("IdentifyReply{host=%q, netid=%s, twincat=%s}", r.Host, r.NetID, r.Version)
}

// UDPPacket is a parsed UDP protocol datagram
type UDPPacket struct {
	InvokeID uint32
	Service  uint32
	NetID    ams.NetID
	Port     uint16
	Tags     map[uint16][]byte
}

// ParseBCReply decodes a bus coupler reply. Bytes beyond BCReplySize are
// ignored.
func ParseBCReply(data []byte) (*BCReply, error) {
	if len(data) < BCReplySize {
		return nil, fmt.Errorf("bc reply too short: %d bytes (minimum %d)", len(data), BCReplySize)
	}

	return &BCReply{
		Value: binary.LittleEndian.Uint32(data[0:4]),
		NetID: ams.NetIDFromSlice(data[10:16]),
		Name:  string(bytes.TrimRight(data[22:42], "\x00")),
	}, nil
}

// ParseUDPPacket decodes a UDP protocol datagram and checks its service.
func ParseUDPPacket(data []byte, service uint32) (*UDPPacket, error) {
	if len(data) < UDPHeaderSize {
		return nil, fmt.Errorf("udp packet too short: %d bytes (minimum %d)", len(data), UDPHeaderSize)
	}

	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != ams.UDPMagic {
		return nil, fmt.Errorf("bad magic: 0x%08x", magic)
	}

	pkt := &UDPPacket{
		InvokeID: binary.LittleEndian.Uint32(data[4:8]),
		Service:  binary.LittleEndian.Uint32(data[8:12]),
		NetID:    ams.NetIDFromSlice(data[12:18]),
		Port:     binary.LittleEndian.Uint16(data[18:20]),
		Tags:     make(map[uint16][]byte),
	}

	if pkt.Service != service {
		return nil, fmt.Errorf("unexpected service: 0x%08x (want 0x%08x)", pkt.Service, service)
	}

	count := binary.LittleEndian.Uint32(data[20:24])
	rest := data[UDPHeaderSize:]
	for i := uint32(0); i < count; i++ {
		if len(rest) < 4 {
			return nil, fmt.Errorf("tag %d: truncated header", i)
		}
		tag := binary.LittleEndian.Uint16(rest[0:2])
		size := int(binary.LittleEndian.Uint16(rest[2:4]))
		rest = rest[4:]
		if len(rest) < size {
			return nil, fmt.Errorf("tag %d (id %d): need %d bytes, have %d", i, tag, size, len(rest))
		}
		pkt.Tags[tag] = rest[:size]
		rest = rest[size:]
	}

	return pkt, nil
}

// ParseIdentifyReply decodes a reply to the identify request.
func ParseIdentifyReply(data []byte) (*IdentifyReply, error) {
	pkt, err := ParseUDPPacket(data, ServiceIdentify|ServiceResponse)
	if err != nil {
		return nil, err
	}

	host, ok := pkt.Tags[TagHost]
	if !ok || len(host) == 0 {
		return nil, fmt.Errorf("identify reply without host name")
	}
	if i := bytes.IndexByte(host, 0); i >= 0 {
		host = host[:i]
	}

	ver, ok := pkt.Tags[TagVersion]
	if !ok || len(ver) < 4 {
		return nil, fmt.Errorf("identify reply without version")
	}

	return &IdentifyReply{
		NetID: pkt.NetID,
		Port:  pkt.Port,
		Host:  string(host),
		Version: Version{
			Major: ver[0],
			Minor: ver[1],
			Build: uint16(ver[2]) | uint16(ver[3])<<8,
		},
	}, nil
}

// ParseReply runs the decoder for kind. ReplyUnknown always fails.
func ParseReply(kind ReplyKind, data []byte) (Reply, error) {
	switch kind {
	case ReplyBC:
		r, err := ParseBCReply(data)
		if err != nil {
			return nil, err
		}
		return r, nil
	case ReplyIdentify:
		r, err := ParseIdentifyReply(data)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("no decoder for %s reply", kind)
	}
}
