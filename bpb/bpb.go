// Package bpb parses the BIOS Parameter Block at sector 0 of a FAT32
// volume and exposes the geometry derived from it.
//
// The on-disk layout mirrors the teacher driver's
// RawFATBootSectorWithBPB/RawFAT32BootSector split (drivers/fat/common.go,
// drivers/fat/fat32.go): a fixed-size struct read with a single
// encoding/binary.Read call, rather than hand-indexed byte offsets.
package bpb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/ferrors"
)

// rawBootSector is the first 90 bytes of a FAT32 boot sector, laid out
// field-for-field so a single binary.Read decodes it with no manual
// offset arithmetic.
type rawBootSector struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	SectorsPerFAT16   uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32

	// FAT32-specific extended BPB.
	SectorsPerFAT32  uint32
	ExtFlags         uint16
	FSVersionMinor   uint8
	FSVersionMajor   uint8
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16
	Reserved         [12]byte
	DriveNumber      uint8
	NTReserved       uint8
	ExBootSignature  uint8
	VolumeID         uint32
	VolumeLabel      [11]byte
	FileSystemType   [8]byte
}

// BPB is the parsed, immutable geometry of a mounted volume. Fields and
// names follow spec.md §3 exactly.
type BPB struct {
	BytePerSector     uint16
	SectorPerCluster  uint8
	ReservedSectors   uint16
	NumFATs           uint8
	TotalSectors      uint32
	SectorsPerFAT     uint32
	RootCluster       uint32
	VolumeID          uint32
	VolumeLabel       [11]byte
	FSType            [8]byte
	OEMName           [8]byte
}

// Parse reads sector 0 from device and builds a BPB.
//
// It fails with ferrors.NotFat32 if bytes 0x52..0x5A don't begin with "FAT32", and
// with ferrors.UnsupportedSectorSize if BytesPerSector != 512 — the two
// fatal mount conditions spec.md §4.1 specifies.
func Parse(device blockdev.Device) (*BPB, error) {
	sector := make([]byte, blockdev.SectorSize)
	if err := device.ReadSectors(sector, 0, 1); err != nil {
		return nil, ferrors.WrapIo("bpb.Parse", err)
	}

	var raw rawBootSector
	if err := binary.Read(bytes.NewReader(sector), binary.LittleEndian, &raw); err != nil {
		return nil, ferrors.WrapIo("bpb.Parse", err)
	}

	if !bytes.HasPrefix(raw.FileSystemType[:], []byte("FAT32")) {
		return nil, ferrors.NewMountError(
			ferrors.NotFat32,
			fmt.Sprintf("fs_type = %q", raw.FileSystemType))
	}
	if raw.BytesPerSector != blockdev.SectorSize {
		return nil, ferrors.NewMountError(
			ferrors.UnsupportedSectorSize,
			fmt.Sprintf("byte_per_sector = %d", raw.BytesPerSector))
	}

	return &BPB{
		BytePerSector:    raw.BytesPerSector,
		SectorPerCluster: raw.SectorsPerCluster,
		ReservedSectors:  raw.ReservedSectors,
		NumFATs:          raw.NumFATs,
		TotalSectors:     raw.TotalSectors32,
		SectorsPerFAT:    raw.SectorsPerFAT32,
		RootCluster:      raw.RootCluster,
		VolumeID:         raw.VolumeID,
		VolumeLabel:      raw.VolumeLabel,
		FSType:           raw.FileSystemType,
		OEMName:          raw.OEMName,
	}, nil
}

// Fat1ByteOffset is the byte offset of the first FAT, relative to the
// start of the device.
func (b *BPB) Fat1ByteOffset() int64 {
	return int64(b.ReservedSectors) * int64(b.BytePerSector)
}

// FatByteOffset is the byte offset of the fatIndex'th FAT copy (0-based).
// FAT copies are laid out back to back starting at Fat1ByteOffset.
func (b *BPB) FatByteOffset(fatIndex int) int64 {
	return b.Fat1ByteOffset() + int64(fatIndex)*int64(b.SectorsPerFAT)*int64(b.BytePerSector)
}

// ClusterByteOffset is the byte offset of the data region cluster n,
// n >= 2.
func (b *BPB) ClusterByteOffset(n uint32) int64 {
	firstDataSector := int64(b.ReservedSectors) +
		int64(b.NumFATs)*int64(b.SectorsPerFAT)
	sectorsBeforeCluster := firstDataSector + int64(n-2)*int64(b.SectorPerCluster)
	return sectorsBeforeCluster * int64(b.BytePerSector)
}

// BytesPerCluster is the size of a single cluster in bytes.
func (b *BPB) BytesPerCluster() int {
	return int(b.SectorPerCluster) * int(b.BytePerSector)
}

// Label returns the volume label with trailing spaces trimmed.
func (b *BPB) Label() string {
	return string(bytes.TrimRight(b.VolumeLabel[:], " "))
}

// TotalDataClusters returns the number of clusters in the data region,
// used by fsck and the FAT allocator to bound scans.
func (b *BPB) TotalDataClusters() uint32 {
	firstDataSector := uint32(b.ReservedSectors) + uint32(b.NumFATs)*b.SectorsPerFAT
	if b.TotalSectors <= firstDataSector {
		return 0
	}
	dataSectors := b.TotalSectors - firstDataSector
	return dataSectors / uint32(b.SectorPerCluster)
}
