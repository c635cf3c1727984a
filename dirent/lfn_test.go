package dirent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/dirent"
)

func ucs2Entry(flagByte byte, text string) []byte {
	b := make([]byte, dirent.Size)
	b[0x00] = flagByte
	b[0x0B] = dirent.AttrLongName

	units := make([]uint16, 0, 13)
	for _, r := range text {
		units = append(units, uint16(r))
	}
	nameUnits := len(units)
	for len(units) < 13 {
		if len(units) == nameUnits {
			units = append(units, 0x0000)
		} else {
			units = append(units, 0xFFFF)
		}
	}

	ranges := [][2]int{{0x01, 0x0B}, {0x0E, 0x1A}, {0x1C, 0x20}}
	slot := 0
	for _, r := range ranges {
		for i := r[0]; i+1 < r[1]; i += 2 {
			u := units[slot]
			slot++
			b[i] = byte(u & 0xFF)
			b[i+1] = byte(u >> 8)
		}
	}
	return b
}

func TestDecodeLongNameFragment__ASCII(t *testing.T) {
	entry := ucs2Entry(0x41, "report.txt")
	assert.Equal(t, "report.txt", dirent.DecodeLongNameFragment(entry))
}

func TestDecodeLongNameFragment__MultiByteUTF8(t *testing.T) {
	entry := ucs2Entry(0x01, "café")
	assert.Equal(t, "café", dirent.DecodeLongNameFragment(entry))
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, 1, dirent.Ordinal(0x41))
	assert.Equal(t, 3, dirent.Ordinal(0x03))
}

func TestIsLastLongNameEntry(t *testing.T) {
	assert.True(t, dirent.IsLastLongNameEntry(0x41))
	assert.False(t, dirent.IsLastLongNameEntry(0x01))
}

func TestEncodeLongNameFragment__DecodesBackToSameText(t *testing.T) {
	chars := []uint16{'h', 'i'}
	encoded := dirent.EncodeLongNameFragment(1, true, chars)
	require.Equal(t, byte(dirent.AttrLongName), encoded[0x0B])
	assert.Equal(t, "hi", dirent.DecodeLongNameFragment(encoded))
}
