// Package lexer provides the character- and line-level scanning primitives
// shared by internal/grammar: BOM/encoding detection, identifier and
// numeric-literal matching, and quoted/bare string scanning. The BOM
// handling is grounded in the teacher's internal/regtext/lexer.go
// (joshuapare-hivekit), generalized from "convert a .reg export's legacy
// codepage to UTF-8" to "accept a UTF-16LE-with-BOM hyprlang file", since
// Hyprlang source text itself is always UTF-8/ASCII identifiers per spec
// §4.1, but files authored or re-saved by Windows-side tooling in this
// config family commonly carry a UTF-16LE BOM.
package lexer

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// DecodeSource strips a UTF-8 BOM or transcodes a UTF-16LE-with-BOM buffer
// to UTF-8. Input with neither BOM is returned unchanged (no copy).
func DecodeSource(data []byte) ([]byte, error) {
	if hasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], nil
	}
	if hasPrefix(data, utf16LEBOM) {
		return decodeUTF16LE(data)
	}
	return data, nil
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

// decodeUTF16LE transcodes a UTF-16LE buffer (including its BOM) to UTF-8
// using golang.org/x/text's unicode decoder, mirroring the teacher's
// utf16LEToBytes but routed through the ecosystem transform package rather
// than a hand-rolled decode loop.
func decodeUTF16LE(data []byte) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err == nil {
		return out, nil
	}
	// Fall back to a manual decode if the transform package rejects the
	// input for any reason (e.g. an odd trailing byte); this keeps short,
	// slightly malformed UTF-16LE inputs parseable instead of hard-failing.
	return manualDecodeUTF16LE(data[len(utf16LEBOM):]), nil
}

func manualDecodeUTF16LE(data []byte) []byte {
	if len(data)%2 == 1 {
		data = data[:len(data)-1]
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}
	return []byte(string(utf16.Decode(words)))
}
