package leb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/embeddedfs/fat32/leb"
)

func TestUint16__RoundTrip(t *testing.T) {
	b := make([]byte, 2)
	leb.PutUint16(b, 0xABCD)
	assert.EqualValues(t, 0xABCD, leb.Uint16(b))
}

func TestUint32__RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	leb.PutUint32(b, 0xDEADBEEF)
	assert.EqualValues(t, 0xDEADBEEF, leb.Uint32(b))
}

func TestUint16__LittleEndianByteOrder(t *testing.T) {
	assert.EqualValues(t, 0x0201, leb.Uint16([]byte{0x01, 0x02}))
}

func TestUint32__LittleEndianByteOrder(t *testing.T) {
	assert.EqualValues(t, 0x04030201, leb.Uint32([]byte{0x01, 0x02, 0x03, 0x04}))
}
