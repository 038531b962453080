package protocol

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/muurk/adsfwd/internal/ams"
)

// bcReply builds a bus coupler reply in the documented layout
func bcReply(netID ams.NetID, name string) []byte {
	data := make([]byte, BCReplySize)
	binary.LittleEndian.PutUint32(data[0:4], 0x12345678)
	copy(data[10:16], netID[:])
	copy(data[22:42], name)
	return data
}

// identifyReply builds an identify response as an embedded PC sends it
func identifyReply(netID ams.NetID, host string, ver []byte) []byte {
	return NewUDPMessage(ServiceIdentify|ServiceResponse, netID, 10000, 0).
		AddString(TagHost, host).
		AddBytes(TagOSVersion, []byte{0x14, 0, 0, 0}).
		AddBytes(TagVersion, ver).
		Bytes()
}

func TestParseBCReply(t *testing.T) {
	netID := ams.NetID{172, 16, 1, 9, 1, 1}

	tests := []struct {
		name     string
		data     []byte
		wantErr  bool
		wantName string
	}{
		{
			name:     "valid reply",
			data:     bcReply(netID, "TESTDEV"),
			wantName: "TESTDEV",
		},
		{
			name:     "name fills field",
			data:     bcReply(netID, "ABCDEFGHIJKLMNOPQRST"),
			wantName: "ABCDEFGHIJKLMNOPQRST",
		},
		{
			name:     "trailing bytes ignored",
			data:     append(bcReply(netID, "BC9000"), 0xff, 0xff),
			wantName: "BC9000",
		},
		{
			name:    "too short",
			data:    bcReply(netID, "X")[:41],
			wantErr: true,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseBCReply(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBCReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if reply.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", reply.Name, tt.wantName)
			}
			if reply.NetID != netID {
				t.Errorf("NetID = %s, want %s", reply.NetID, netID)
			}
			if reply.Value != 0x12345678 {
				t.Errorf("Value = 0x%08x", reply.Value)
			}
			if reply.Kind() != ReplyBC {
				t.Errorf("Kind() = %v", reply.Kind())
			}
		})
	}
}

func TestParseIdentifyReply(t *testing.T) {
	netID := ams.NetID{5, 20, 30, 40, 1, 1}

	reply, err := ParseIdentifyReply(identifyReply(netID, "CX-1A2B3C", []byte{3, 1, 0xe4, 0x0f}))
	if err != nil {
		t.Fatalf("ParseIdentifyReply() error = %v", err)
	}

	if reply.Host != "CX-1A2B3C" {
		t.Errorf("Host = %q, want CX-1A2B3C", reply.Host)
	}
	if reply.NetID != netID {
		t.Errorf("NetID = %s, want %s", reply.NetID, netID)
	}
	if got := reply.Version.String(); got != "3.1.4068" {
		t.Errorf("Version = %s, want 3.1.4068", got)
	}
	if !strings.Contains(reply.String(), "CX-1A2B3C") {
		t.Errorf("String() = %s", reply.String())
	}
}

func TestParseIdentifyReply_Invalid(t *testing.T) {
	netID := ams.NetID{5, 20, 30, 40, 1, 1}
	valid := identifyReply(netID, "CX", []byte{3, 1, 0, 0})

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", valid[:10]},
		{
			name: "bad magic",
			data: func() []byte {
				d := append([]byte(nil), valid...)
				d[0] = 0
				return d
			}(),
		},
		{"request instead of response", BuildIdentifyRequest()},
		{"truncated tag", valid[:len(valid)-2]},
		{
			name: "missing host",
			data: NewUDPMessage(ServiceIdentify|ServiceResponse, netID, 10000, 0).
				AddBytes(TagVersion, []byte{3, 1, 0, 0}).Bytes(),
		},
		{
			name: "missing version",
			data: NewUDPMessage(ServiceIdentify|ServiceResponse, netID, 10000, 0).
				AddString(TagHost, "CX").Bytes(),
		},
		{
			name: "short version",
			data: NewUDPMessage(ServiceIdentify|ServiceResponse, netID, 10000, 0).
				AddString(TagHost, "CX").
				AddBytes(TagVersion, []byte{3, 1}).Bytes(),
		},
		{"bc reply", bcReply(netID, "TESTDEV")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if reply, err := ParseIdentifyReply(tt.data); err == nil {
				t.Errorf("ParseIdentifyReply() = %v, want error", reply)
			}
		})
	}
}

func TestParseReply(t *testing.T) {
	netID := ams.NetID{10, 0, 0, 7, 1, 1}

	tests := []struct {
		name    string
		kind    ReplyKind
		data    []byte
		wantErr bool
	}{
		{"bc", ReplyBC, bcReply(netID, "BC"), false},
		{"identify", ReplyIdentify, identifyReply(netID, "CX", []byte{2, 11, 0x30, 0x07}), false},
		{"identify bytes on bc decoder", ReplyBC, identifyReply(netID, "CX", []byte{2, 11, 0, 0})[:30], true},
		{"unknown kind", ReplyUnknown, bcReply(netID, "BC"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseReply(tt.kind, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if reply != nil {
					t.Errorf("ParseReply() reply = %v, want nil", reply)
				}
				return
			}
			if reply.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", reply.Kind(), tt.kind)
			}
			if reply.ID() != netID {
				t.Errorf("ID() = %s, want %s", reply.ID(), netID)
			}
		})
	}
}

func TestReplyKind_String(t *testing.T) {
	if ReplyBC.String() != "bc" || ReplyIdentify.String() != "identify" || ReplyKind(9).String() != "unknown" {
		t.Error("unexpected ReplyKind names")
	}
}

func TestParseUDPPacket_AllTags(t *testing.T) {
	netID := ams.NetID{10, 0, 0, 7, 1, 1}
	service := ServiceAddRoute | ServiceResponse

	tags := []struct {
		tag  uint16
		data []byte
	}{
		{TagStatus, []byte{0, 0, 0, 0}},
		{TagPassword, []byte("1\x00")},
		{TagVersion, []byte{3, 1, 0x10, 0x0f}},
		{TagOSVersion, []byte{0x14, 0, 0, 0}},
		{TagHost, []byte("CX-1\x00")},
		{TagNetID, netID[:]},
		{TagOptions, []byte{1, 0, 0, 0}},
		{TagRouteName, []byte("route\x00")},
		{TagUserName, []byte("Administrator\x00")},
	}

	msg := NewUDPMessage(service, netID, 10000, 42)
	for _, tt := range tags {
		msg.AddBytes(tt.tag, tt.data)
	}

	pkt, err := ParseUDPPacket(msg.Bytes(), service)
	if err != nil {
		t.Fatalf("ParseUDPPacket() error = %v", err)
	}
	if pkt.InvokeID != 42 || pkt.Port != 10000 || pkt.NetID != netID {
		t.Errorf("header = {invoke %d, port %d, netid %s}", pkt.InvokeID, pkt.Port, pkt.NetID)
	}
	if len(pkt.Tags) != len(tags) {
		t.Errorf("got %d tags, want %d", len(pkt.Tags), len(tags))
	}
	for _, tt := range tags {
		if got := pkt.Tags[tt.tag]; !bytes.Equal(got, tt.data) {
			t.Errorf("tag %d = % x, want % x", tt.tag, got, tt.data)
		}
	}

	if _, err := ParseUDPPacket(msg.Bytes(), ServiceIdentify|ServiceResponse); err == nil {
		t.Error("expected service mismatch error")
	}
}
