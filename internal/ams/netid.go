package ams

import (
	"fmt"
	"strconv"
	"strings"
)

// NetIDLen is the size of an AMS NetID in bytes.
const NetIDLen = 6

// NetID is an AMS NetID. The zero value means "unset".
type NetID [NetIDLen]byte

// IsEmpty reports whether the NetID is all zeros.
func (id NetID) IsEmpty() bool {
	return id == NetID{}
}

// String formats the NetID as dot-separated decimal bytes.
func (id NetID) String() string {
	parts := make([]string, NetIDLen)
	for i, b := range id {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ".")
}

// MarshalText implements encoding.TextMarshaler so NetIDs render as strings
// in JSON and YAML output.
func (id NetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NetID) UnmarshalText(text []byte) error {
	parsed, err := ParseNetID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseNetID parses a dotted NetID. Missing trailing components default to 1.
func ParseNetID(s string) (NetID, error) {
	id := NetID{1, 1, 1, 1, 1, 1}

	parts := strings.Split(s, ".")
	if len(parts) > NetIDLen {
		return NetID{}, &FormatError{
			Input:  s,
			Reason: fmt.Sprintf("too many components (%d, max %d)", len(parts), NetIDLen),
		}
	}

	for i, part := range parts {
		if part == "" {
			return NetID{}, &FormatError{Input: s, Reason: fmt.Sprintf("component %d is empty", i+1)}
		}
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return NetID{}, &FormatError{
				Input:  s,
				Reason: fmt.Sprintf("component %d is not a byte", i+1),
				Err:    err,
			}
		}
		id[i] = byte(v)
	}

	return id, nil
}

// MustParseNetID is like ParseNetID but panics on error. Use for constants.
func MustParseNetID(s string) NetID {
	id, err := ParseNetID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NetIDFromSlice copies a 6-byte slice into a NetID. Any other length is a
// programming error and panics with *InvariantError.
func NetIDFromSlice(b []byte) NetID {
	if len(b) != NetIDLen {
		panic(&InvariantError{
			Op:     "NetIDFromSlice",
			Detail: fmt.Sprintf("need %d bytes, got %d", NetIDLen, len(b)),
		})
	}
	var id NetID
	copy(id[:], b)
	return id
}
