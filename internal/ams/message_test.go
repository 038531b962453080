package ams

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// buildFrame returns an AMS/TCP frame of the given total size with a
// correct length field and recognizable NetIDs.
func buildFrame(total int) []byte {
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[2:6], uint32(total-PrefixSize))
	copy(buf[6:12], []byte{1, 2, 3, 4, 1, 1})
	binary.LittleEndian.PutUint16(buf[12:14], 851)
	copy(buf[14:20], []byte{5, 6, 7, 8, 1, 1})
	binary.LittleEndian.PutUint16(buf[20:22], 32905)
	return buf
}

func TestNewMessage(t *testing.T) {
	buf := buildFrame(38)

	msg, err := NewMessage(buf)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if msg.Length() != 38 {
		t.Errorf("Length() = %d, want 38", msg.Length())
	}
	if msg.DestID() != (NetID{1, 2, 3, 4, 1, 1}) {
		t.Errorf("DestID() = %v", msg.DestID())
	}
	if msg.SourceID() != (NetID{5, 6, 7, 8, 1, 1}) {
		t.Errorf("SourceID() = %v", msg.SourceID())
	}
}

func TestNewMessage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "length field too small",
			buf: func() []byte {
				b := buildFrame(40)
				binary.LittleEndian.PutUint32(b[2:6], 30)
				return b
			}(),
		},
		{
			name: "length field too large",
			buf: func() []byte {
				b := buildFrame(40)
				binary.LittleEndian.PutUint32(b[2:6], 100)
				return b
			}(),
		},
		{
			name: "truncated header",
			buf:  []byte{0, 0, 4, 0, 0, 0, 1, 2, 3, 4},
		},
		{
			name: "empty",
			buf:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.buf)
			if err == nil {
				t.Fatalf("NewMessage() = %v, want error", msg)
			}
			var ie *InvariantError
			if !errors.As(err, &ie) {
				t.Errorf("error type = %T, want *InvariantError", err)
			}
		})
	}
}

func TestMessage_Patch(t *testing.T) {
	buf := buildFrame(44)
	payload := append([]byte(nil), buf[20:]...)

	msg, err := NewMessage(buf)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	dest := NetID{10, 0, 0, 5, 1, 1}
	src := NetID{192, 168, 1, 2, 1, 1}
	msg.PatchDestID(dest)
	msg.PatchSourceID(src)

	if msg.DestID() != dest {
		t.Errorf("DestID() = %v, want %v", msg.DestID(), dest)
	}
	if msg.SourceID() != src {
		t.Errorf("SourceID() = %v, want %v", msg.SourceID(), src)
	}
	if !bytes.Equal(msg.Bytes()[6:12], dest[:]) || !bytes.Equal(msg.Bytes()[14:20], src[:]) {
		t.Errorf("patched bytes = % x", msg.Bytes()[:20])
	}

	// Target port, length and payload stay as they were
	if binary.LittleEndian.Uint16(msg.Bytes()[12:14]) != 851 {
		t.Error("target port was modified")
	}
	if msg.Length() != 44 {
		t.Errorf("Length() = %d after patch, want 44", msg.Length())
	}
	if !bytes.Equal(msg.Bytes()[20:], payload) {
		t.Error("payload was modified")
	}
}

func TestReadMessage(t *testing.T) {
	first := buildFrame(38)
	second := buildFrame(50)
	second[49] = 0xAA

	r := bytes.NewReader(append(append([]byte(nil), first...), second...))

	msg, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("ReadMessage() #1 error = %v", err)
	}
	if !bytes.Equal(msg.Bytes(), first) {
		t.Errorf("frame #1 = % x", msg.Bytes())
	}

	msg, err = ReadMessage(r)
	if err != nil {
		t.Fatalf("ReadMessage() #2 error = %v", err)
	}
	if msg.Length() != 50 || msg.Bytes()[49] != 0xAA {
		t.Errorf("frame #2 = % x", msg.Bytes())
	}

	if _, err := ReadMessage(r); !errors.Is(err, io.EOF) {
		t.Errorf("ReadMessage() at end error = %v, want io.EOF", err)
	}
}

func TestReadMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short prefix", []byte{0, 0, 1}},
		{"length below header", []byte{0, 0, 2, 0, 0, 0, 0, 0}},
		{"length above maximum", []byte{0, 0, 0xff, 0xff, 0xff, 0x7f}},
		{"truncated body", buildFrame(38)[:30]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ReadMessage(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatalf("ReadMessage() = %v, want error", msg)
			}
			if errors.Is(err, io.EOF) {
				t.Errorf("ReadMessage() error = %v, must not look like a clean end", err)
			}
		})
	}
}

func TestReadMessage_PrefixOnly(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(buildFrame(38)[:PrefixSize]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadMessage() error = %v, want io.ErrUnexpectedEOF", err)
	}
}
