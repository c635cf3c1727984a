package dirent

// LFN entries hold a UCS-2 filename fragment across three character
// ranges inside the 32-byte record, stored on disk in reverse logical
// order (spec.md §3/§4.4). Decoding is grounded in the bit-for-bit logic
// of original_source/src/dir.rs's get_long_name, with its surrogate-pair
// and overflow bugs left out: spec.md explicitly puts surrogate pairs out
// of scope, and this implementation bounds output correctly instead of
// writing into a fixed [39]byte array.

// LastLongNameFlag marks the LFN entry holding the tail of the filename
// (it is stored first on disk because entries are written in reverse).
const LastLongNameFlag = 0x40

// OrdinalMask extracts the 1-based sequence number from an LFN entry's
// first byte.
const OrdinalMask = 0x1F

// ucs2Ranges lists the three [start, end) byte ranges inside a 32-byte LFN
// entry that hold 2-byte UCS-2 code units, in on-disk order.
var ucs2Ranges = [3][2]int{
	{0x01, 0x0B},
	{0x0E, 0x1A},
	{0x1C, 0x20},
}

// Ordinal returns the low-5-bit sequence number of an LFN entry's first
// byte.
func Ordinal(entryByte0 byte) int {
	return int(entryByte0 & OrdinalMask)
}

// IsLastLongNameEntry reports whether entryByte0 carries the "last LFN in
// the group" flag.
func IsLastLongNameEntry(entryByte0 byte) bool {
	return entryByte0&LastLongNameFlag != 0
}

// DecodeLongNameFragment extracts the UTF-8 text held in one 32-byte LFN
// entry. Each of the three UCS-2 ranges is decoded independently: a range
// whose first byte is 0xFF is skipped entirely ("unused, do not decode
// further" per spec.md §3); otherwise each UCS-2 code unit is read until a
// 0x0000 terminator and re-encoded as 1, 2, or 3 UTF-8 bytes depending on
// its value, exactly as spec.md §4.4 specifies. Surrogate pairs are not
// handled — out of scope per spec.md §1.
func DecodeLongNameFragment(entry []byte) string {
	_ = entry[31]
	var out []byte

	for _, r := range ucs2Ranges {
		start, end := r[0], r[1]
		if entry[start] == 0xFF {
			continue
		}
		for i := start; i+1 < end; i += 2 {
			lo, hi := entry[i], entry[i+1]
			if lo == 0 && hi == 0 {
				break
			}
			unit := (uint16(hi) << 8) | uint16(lo)
			out = appendUTF8FromUCS2(out, unit)
		}
	}

	return string(out)
}

// appendUTF8FromUCS2 encodes a single UCS-2 code unit (no surrogate
// handling) as 1, 2, or 3 UTF-8 bytes per spec.md §4.4.
func appendUTF8FromUCS2(dst []byte, unit uint16) []byte {
	switch {
	case unit <= 0x7F:
		return append(dst, byte(unit))
	case unit <= 0x7FF:
		return append(dst,
			0xC0|byte(unit>>6),
			0x80|byte(unit&0x3F))
	default:
		return append(dst,
			0xE0|byte(unit>>12),
			0x80|byte((unit>>6)&0x3F),
			0x80|byte(unit&0x3F))
	}
}

// EncodeLongNameFragment packs up to 13 UCS-2 code units from chars into
// the three character ranges of a 32-byte LFN entry skeleton,
// null-terminating and 0xFFFF-padding per the VFAT convention. It is the
// inverse of DecodeLongNameFragment for code units without surrogates.
// Nothing in this module's creation path calls it:
// directory.CreateFile/CreateDir only ever create short-name entries.
func EncodeLongNameFragment(ordinal int, isLast bool, chars []uint16) []byte {
	b := make([]byte, Size)
	flag := byte(ordinal) & OrdinalMask
	if isLast {
		flag |= LastLongNameFlag
	}
	b[0x00] = flag
	b[0x0B] = AttrLongName

	slot := 0
	writeUnit := func(pos int, u uint16) {
		b[pos] = byte(u & 0xFF)
		b[pos+1] = byte(u >> 8)
	}

	terminated := false
	for _, r := range ucs2Ranges {
		start, end := r[0], r[1]
		for i := start; i+1 < end; i += 2 {
			var u uint16
			switch {
			case terminated:
				u = 0xFFFF
			case slot < len(chars):
				u = chars[slot]
				slot++
			case slot == len(chars):
				u = 0x0000
				slot++
				terminated = true
			default:
				u = 0xFFFF
			}
			writeUnit(i, u)
		}
	}
	return b
}
