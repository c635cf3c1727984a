// Package fatfmt formats a blank FAT32 volume: a boot sector, one or more
// mirrored FAT copies, and an empty root directory cluster.
//
// This is new relative to spec.md and the original source — SPEC_FULL.md
// §4.10 calls for it as a supplemented feature, grounded on the teacher's
// UnixV1Driver.Format (file_systems/unixv1/format.go), which assembles a
// whole filesystem image in memory with a bytewriter.Writer before ever
// touching the disk image.
package fatfmt

import (
	"encoding/binary"
	"fmt"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/ferrors"
	"github.com/hashicorp/go-multierror"
	"github.com/noxer/bytewriter"
)

// Options describes the geometry of the volume to format. Unlike the
// teacher's disko.FSStat (block/inode counts for a Unix filesystem), these
// fields are FAT32's own BPB quantities (spec.md §3).
type Options struct {
	Label             string
	TotalSectors      uint32
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
}

const (
	minReservedSectors = 1
	minTotalSectors    = 1024
	entrySize          = 4
)

// validate aggregates every independent geometry violation into one error,
// grounded on the teacher's pattern of collecting each invalid field as its
// own disko.ErrInvalidArgument rather than failing on the first one.
func (o Options) validate() error {
	var errs *multierror.Error
	if o.SectorsPerCluster == 0 {
		errs = multierror.Append(errs, fmt.Errorf("sectors_per_cluster must be nonzero"))
	}
	if o.NumFATs == 0 {
		errs = multierror.Append(errs, fmt.Errorf("num_fats must be nonzero"))
	}
	if o.ReservedSectors < minReservedSectors {
		errs = multierror.Append(errs, fmt.Errorf("reserved_sectors must be at least %d", minReservedSectors))
	}
	if o.TotalSectors < minTotalSectors {
		errs = multierror.Append(errs, fmt.Errorf("total_sectors must be at least %d", minTotalSectors))
	}
	if len(o.Label) > 11 {
		errs = multierror.Append(errs, fmt.Errorf("label must be at most 11 bytes, got %d", len(o.Label)))
	}
	if errs != nil {
		return errs
	}
	return nil
}

// sectorsPerFAT computes the number of sectors each FAT copy needs to hold
// one 4-byte entry per data cluster, rounded up.
func sectorsPerFAT(o Options) uint32 {
	dataSectors := o.TotalSectors - uint32(o.ReservedSectors)
	dataClusters := dataSectors / uint32(o.SectorsPerCluster)
	// +2 reserved entries (clusters 0 and 1 are never allocated).
	fatBytes := (dataClusters + 2) * entrySize
	fatSectors := (fatBytes + blockdev.SectorSize - 1) / blockdev.SectorSize
	return fatSectors
}

// Format builds a blank volume matching o and writes it to device in full,
// starting from sector 0. Any pre-existing content on device beyond the
// formatted region is left untouched.
func Format(device blockdev.Device, o Options) error {
	if err := o.validate(); err != nil {
		return err
	}

	spf := sectorsPerFAT(o)
	rootCluster := uint32(2)
	totalImageSectors := uint32(o.ReservedSectors) + uint32(o.NumFATs)*spf + uint32(o.SectorsPerCluster)
	if totalImageSectors > o.TotalSectors {
		return fmt.Errorf("fatfmt: volume too small to hold boot sector, %d FAT(s), and root cluster",
			o.NumFATs)
	}

	image := make([]byte, int64(totalImageSectors)*blockdev.SectorSize)

	if err := writeBootSector(image, o, spf, rootCluster); err != nil {
		return err
	}
	writeFATs(image, o, spf, rootCluster)
	// Root directory cluster is left zeroed, i.e. immediately
	// end-of-directory at its first byte — an empty but valid directory.

	sectors := int(totalImageSectors)
	return ferrors.WrapIo("fatfmt.Format", device.WriteSectors(image, 0, sectors))
}

// writeBootSector serializes the BPB fields into image[0:512], following
// the same field layout bpb.Parse decodes (bpb/bpb.go's rawBootSector).
func writeBootSector(image []byte, o Options, spf uint32, rootCluster uint32) error {
	w := bytewriter.New(image[0:blockdev.SectorSize])

	write := func(v any) {
		binary.Write(w, binary.LittleEndian, v)
	}

	write([3]byte{0xEB, 0x58, 0x90}) // JmpBoot
	write(padded("EMBFAT32", 8))     // OEMName
	write(uint16(blockdev.SectorSize))
	write(o.SectorsPerCluster)
	write(o.ReservedSectors)
	write(o.NumFATs)
	write(uint16(0)) // RootEntryCount: always 0 for FAT32
	write(uint16(0)) // TotalSectors16: unused, TotalSectors32 carries it
	write(uint8(0xF8))
	write(uint16(0)) // SectorsPerFAT16: unused on FAT32
	write(uint16(0)) // SectorsPerTrack: unused by this driver
	write(uint16(0)) // NumHeads: unused by this driver
	write(uint32(0)) // HiddenSectors
	write(o.TotalSectors)

	write(spf)
	write(uint16(0)) // ExtFlags: FAT mirrored to every copy, no active-FAT selection
	write(uint8(0))  // FSVersionMinor
	write(uint8(0))  // FSVersionMajor
	write(rootCluster)
	write(uint16(1)) // FSInfoSector
	write(uint16(6)) // BackupBootSector, conventional FAT32 value
	write([12]byte{})
	write(uint8(0x80))
	write(uint8(0))
	write(uint8(0x29))
	write(uint32(0)) // VolumeID
	write(padded(o.Label, 11))
	write(padded("FAT32", 8))

	image[blockdev.SectorSize-2] = 0x55
	image[blockdev.SectorSize-1] = 0xAA

	return nil
}

// writeFATs zeroes every FAT copy's entries except clusters 0, 1 (reserved,
// conventionally carry the media descriptor and an end-of-chain marker),
// and rootCluster (claimed end-of-chain since the root directory starts
// with exactly one cluster), mirroring the value across every copy the
// same way fatutil.FAT.Edit does.
func writeFATs(image []byte, o Options, spf uint32, rootCluster uint32) {
	fat1Offset := int64(o.ReservedSectors) * blockdev.SectorSize
	fatSize := int64(spf) * blockdev.SectorSize

	for fatIndex := 0; fatIndex < int(o.NumFATs); fatIndex++ {
		base := fat1Offset + int64(fatIndex)*fatSize
		binary.LittleEndian.PutUint32(image[base:base+4], 0x0FFFFFF8)
		binary.LittleEndian.PutUint32(image[base+4:base+8], 0x0FFFFFFF)
		rootEntryOffset := base + int64(rootCluster)*entrySize
		binary.LittleEndian.PutUint32(image[rootEntryOffset:rootEntryOffset+4], 0x0FFFFFFF)
	}
}

// padded right-pads s with spaces to exactly n bytes, truncating if s is
// longer, for the fixed-width OEMName/VolumeLabel/FileSystemType fields.
func padded(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}
