// Package leb decodes the little-endian multi-byte fields that appear
// throughout the FAT32 on-disk format: the BPB, directory entries, and FAT
// entries are all little-endian regardless of host byte order.
package leb

import "encoding/binary"

// Uint16 decodes a little-endian uint16 from the first 2 bytes of b.
// It panics if b is shorter than 2 bytes; callers always pass a
// fixed-size slice of a 32-byte directory entry or 512-byte sector, so a
// short slice indicates a programming error, not bad on-disk data.
func Uint16(b []byte) uint16 {
	_ = b[1]
	return binary.LittleEndian.Uint16(b)
}

// Uint32 decodes a little-endian uint32 from the first 4 bytes of b.
func Uint32(b []byte) uint32 {
	_ = b[3]
	return binary.LittleEndian.Uint32(b)
}

// PutUint16 encodes v as little-endian into the first 2 bytes of b.
func PutUint16(b []byte, v uint16) {
	_ = b[1]
	binary.LittleEndian.PutUint16(b, v)
}

// PutUint32 encodes v as little-endian into the first 4 bytes of b.
func PutUint32(b []byte, v uint32) {
	_ = b[3]
	binary.LittleEndian.PutUint32(b, v)
}
