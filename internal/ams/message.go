package ams

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Envelope layout
const (
	lengthOffset   = 2
	PrefixSize     = 6 // reserved(2) + length(4)
	destIDOffset   = 6
	sourceIDOffset = 14

	// MinMessageSize is the smallest buffer that holds both NetID fields.
	MinMessageSize = sourceIDOffset + NetIDLen

	// MaxMessageSize bounds what ReadMessage will allocate for one frame.
	MaxMessageSize = 1 << 20
)

// Message is an AMS/TCP frame. Only the NetID fields may change after
// construction.
type Message struct {
	buf []byte
}

// NewMessage wraps buf. The declared length must match the buffer size;
// a mismatch is reported as *InvariantError because the producer built an
// inconsistent frame.
func NewMessage(buf []byte) (*Message, error) {
	if len(buf) < MinMessageSize {
		return nil, &InvariantError{
			Op:     "NewMessage",
			Detail: fmt.Sprintf("buffer of %d bytes is shorter than the %d-byte header", len(buf), MinMessageSize),
		}
	}

	declared := declaredLength(buf)
	if declared != len(buf) {
		return nil, &InvariantError{
			Op:     "NewMessage",
			Detail: fmt.Sprintf("length field says %d bytes, buffer has %d", declared, len(buf)),
		}
	}

	return &Message{buf: buf}, nil
}

// ReadMessage reads one length-prefixed frame from r. The error wraps io.EOF
// only when r ends cleanly before a frame starts.
func ReadMessage(r io.Reader) (*Message, error) {
	prefix := make([]byte, PrefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, fmt.Errorf("failed to read message prefix: %w", err)
	}

	total := declaredLength(prefix)
	if total < MinMessageSize || total > MaxMessageSize {
		return nil, fmt.Errorf("message length %d out of range [%d, %d]", total, MinMessageSize, MaxMessageSize)
	}

	buf := make([]byte, total)
	copy(buf, prefix)
	if _, err := io.ReadFull(r, buf[PrefixSize:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}

	return NewMessage(buf)
}

func declaredLength(buf []byte) int {
	return PrefixSize + int(binary.LittleEndian.Uint32(buf[lengthOffset:PrefixSize]))
}

// Length returns the total frame size as declared in the header.
func (m *Message) Length() int {
	return declaredLength(m.buf)
}

// Bytes returns the underlying frame. The slice aliases the message.
func (m *Message) Bytes() []byte {
	return m.buf
}

// DestID returns the destination NetID.
func (m *Message) DestID() NetID {
	return NetIDFromSlice(m.buf[destIDOffset : destIDOffset+NetIDLen])
}

// SourceID returns the source NetID.
func (m *Message) SourceID() NetID {
	return NetIDFromSlice(m.buf[sourceIDOffset : sourceIDOffset+NetIDLen])
}

// PatchDestID overwrites the destination NetID in place.
func (m *Message) PatchDestID(id NetID) {
	copy(m.buf[destIDOffset:destIDOffset+NetIDLen], id[:])
}

// PatchSourceID overwrites the source NetID in place.
func (m *Message) PatchSourceID(id NetID) {
	copy(m.buf[sourceIDOffset:sourceIDOffset+NetIDLen], id[:])
}

// String returns a debug representation of the message
func (m *Message) String() string {
	return fmt.Sprintf("Message{length=%d, dest=%s, source=%s}", m.Length(), m.DestID(), m.SourceID())
}
