// Package textutil provides text decoding helpers shared by the parser,
// searcher, and session components. Source trees contain files in mixed
// encodings plus outright binary files; everything that reads project text
// goes through the same probe so the components agree on what counts as
// readable.
package textutil

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/dshills/codescope-mcp/pkg/types"
)

// Encoding labels reported to callers
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// probeSize bounds how much of a file the binary probe inspects
const probeSize = 8192

// IsBinary reports whether data looks like binary content. The probe
// checks the leading bytes for NUL, which text files in any supported
// encoding never contain.
func IsBinary(data []byte) bool {
	probe := data
	if len(probe) > probeSize {
		probe = probe[:probeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// Normalize returns data as UTF-8 text plus the encoding it was decoded
// from. Valid UTF-8 input is returned as-is; anything else is
// reinterpreted as Latin-1, which accepts every NUL-free byte sequence.
// Binary content fails with types.ErrFileUnreadable.
func Normalize(data []byte) ([]byte, string, error) {
	if IsBinary(data) {
		return nil, "", types.ErrFileUnreadable
	}
	if utf8.Valid(data) {
		return data, EncodingUTF8, nil
	}
	out := make([]byte, 0, len(data)+len(data)/8)
	for _, b := range data {
		out = utf8.AppendRune(out, rune(b))
	}
	return out, EncodingLatin1, nil
}

// Decode is Normalize for callers that want a string
func Decode(data []byte) (string, string, error) {
	norm, enc, err := Normalize(data)
	if err != nil {
		return "", "", err
	}
	return string(norm), enc, nil
}

// Lines splits text the way an editor numbers it: one entry per line,
// terminators removed, and no phantom empty line after a trailing newline.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
