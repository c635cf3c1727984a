package dirent

import (
	"bytes"
	"strings"
)

// IllegalNameChars is the set of characters forbidden in any name, short
// or long, per spec.md §4.5 step 1.
const IllegalNameChars = "\\/:*?\"<>|"

// ContainsIllegalChar reports whether name contains any character in
// IllegalNameChars.
func ContainsIllegalChar(name string) bool {
	return strings.ContainsAny(name, IllegalNameChars)
}

// IsShortNameCandidate classifies name per spec.md §4.5 step 1: short iff
// ASCII, no space, and at most 8 bytes.
func IsShortNameCandidate(name string) bool {
	if len(name) > 8 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7F || name[i] == ' ' {
			return false
		}
	}
	return true
}

// DecodeDisplayName converts a short entry's Name/Extension fields into a
// displayable string: bytes 0..8 up to the first space, plus "." and the
// non-space bytes of the extension if any are present (spec.md §4.4).
func DecodeDisplayName(e ShortEntry) string {
	name := e.Name[:]
	if i := bytes.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	ext := bytes.ReplaceAll(e.Extension[:], []byte(" "), nil)
	if len(ext) == 0 {
		return string(name)
	}
	return string(name) + "." + string(ext)
}

// EncodeShortName8 encodes an ASCII, space-free name of at most 8 bytes
// into an 11-byte space-padded field (uppercase, no extension support —
// spec.md §4.4's "current design; no extension encoding path"). ok is
// false if name fails any of the rejection rules in spec.md §4.4.
func EncodeShortName8(name string) (out [11]byte, ok bool) {
	for i := range out {
		out[i] = ' '
	}
	if len(name) == 0 || len(name) > 8 {
		return out, false
	}
	if ContainsIllegalChar(name) {
		return out, false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c > 0x7F || c == ' ' {
			return out, false
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out, true
}
