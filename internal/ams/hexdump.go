package ams

import (
	"fmt"
	"io"
	"strings"
)

const hexdumpWidth = 16

// HexdumpLines renders data as hex+ASCII lines, 16 bytes per line:
//
//	0x0000: 01 00 00 00 00 00 21 00 03 00 64 00 04 00 0a 00 | ......!...d.....
//
// A short final line is padded so the ASCII column stays aligned.
func HexdumpLines(data []byte) []string {
	var lines []string
	for offset := 0; offset < len(data); offset += hexdumpWidth {
		end := offset + hexdumpWidth
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]

		hexParts := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for i, b := range chunk {
			hexParts[i] = fmt.Sprintf("%02x", b)
			ascii[i] = printable(b)
		}

		lines = append(lines, fmt.Sprintf("0x%04x: %s%s | %s",
			offset,
			strings.Join(hexParts, " "),
			strings.Repeat("   ", hexdumpWidth-len(chunk)),
			ascii))
	}
	return lines
}

// Hexdump writes HexdumpLines(data) to w, one line each.
func Hexdump(w io.Writer, data []byte) {
	for _, line := range HexdumpLines(data) {
		_, _ = fmt.Fprintln(w, line)
	}
}

func printable(b byte) byte {
	if b >= 0x20 && b <= 0x7e {
		return b
	}
	return '.'
}
