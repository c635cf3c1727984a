// Package dirent implements the 32-byte FAT32 directory-entry codec: short
// (8.3) name entries and VFAT long-filename (LFN) entries, plus the
// cluster-number and name encode/decode rules spec.md §4.4 specifies.
//
// Struct layout follows the teacher's RawDirent (drivers/fat/dirent.go) —
// a plain Go struct filled field-by-field from a byte slice rather than
// parsed with reflection, since the record is fixed-size and hot-path.
package dirent

import (
	"github.com/embeddedfs/fat32/leb"
)

// Size is the length in bytes of every directory entry, short or LFN.
const Size = 32

// Attribute flags, offset 0x0B.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Sentinel values for byte 0x00 of an entry.
const (
	EntryEndOfDirectory = 0x00
	EntryDeleted        = 0xE5
)

// ShortEntry is the decoded form of a 32-byte short directory entry.
type ShortEntry struct {
	Name           [8]byte
	Extension      [3]byte
	Attributes     uint8
	CreateTenths   uint8
	CreateTime     uint16
	CreateDate     uint16
	LastAccessDate uint16
	FirstClusterHi uint16
	WriteTime      uint16
	WriteDate      uint16
	FirstClusterLo uint16
	FileSize       uint32
}

// DecodeShortEntry reads a 32-byte short entry. It does not interpret
// byte 0 (end-of-directory/deleted sentinels); callers check that before
// decoding.
func DecodeShortEntry(b []byte) ShortEntry {
	_ = b[31]
	var e ShortEntry
	copy(e.Name[:], b[0x00:0x08])
	copy(e.Extension[:], b[0x08:0x0B])
	e.Attributes = b[0x0B]
	e.CreateTenths = b[0x0D]
	e.CreateTime = leb.Uint16(b[0x0E:0x10])
	e.CreateDate = leb.Uint16(b[0x10:0x12])
	e.LastAccessDate = leb.Uint16(b[0x12:0x14])
	e.FirstClusterHi = leb.Uint16(b[0x14:0x16])
	e.WriteTime = leb.Uint16(b[0x16:0x18])
	e.WriteDate = leb.Uint16(b[0x18:0x1A])
	e.FirstClusterLo = leb.Uint16(b[0x1A:0x1C])
	e.FileSize = leb.Uint32(b[0x1C:0x20])
	return e
}

// Encode serializes e into a 32-byte entry.
func (e ShortEntry) Encode() []byte {
	b := make([]byte, Size)
	copy(b[0x00:0x08], e.Name[:])
	copy(b[0x08:0x0B], e.Extension[:])
	b[0x0B] = e.Attributes
	b[0x0D] = e.CreateTenths
	leb.PutUint16(b[0x0E:0x10], e.CreateTime)
	leb.PutUint16(b[0x10:0x12], e.CreateDate)
	leb.PutUint16(b[0x12:0x14], e.LastAccessDate)
	leb.PutUint16(b[0x14:0x16], e.FirstClusterHi)
	leb.PutUint16(b[0x16:0x18], e.WriteTime)
	leb.PutUint16(b[0x18:0x1A], e.WriteDate)
	leb.PutUint16(b[0x1A:0x1C], e.FirstClusterLo)
	leb.PutUint32(b[0x1C:0x20], e.FileSize)
	return b
}

// FirstCluster packs FirstClusterHi/FirstClusterLo into a single 32-bit
// cluster number. spec.md §4.4/§9: the original source mis-masks these
// bytes (0x0F / 0xF0>>8); the correct packing is a plain u16-high,
// u16-low concatenation.
func (e ShortEntry) FirstCluster() uint32 {
	return (uint32(e.FirstClusterHi) << 16) | uint32(e.FirstClusterLo)
}

// SetFirstCluster splits cluster into FirstClusterHi/FirstClusterLo.
func (e *ShortEntry) SetFirstCluster(cluster uint32) {
	e.FirstClusterHi = uint16(cluster >> 16)
	e.FirstClusterLo = uint16(cluster & 0xFFFF)
}

func (e ShortEntry) IsDirectory() bool { return e.Attributes&AttrDirectory != 0 }
func (e ShortEntry) IsLongNamePart() bool { return e.Attributes == AttrLongName }
