// Package volume implements mounting a FAT32 volume and obtaining its
// root directory handle (spec.md §4.7).
package volume

import (
	"fmt"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/bpb"
	"github.com/embeddedfs/fat32/directory"
	"github.com/embeddedfs/fat32/fatutil"
)

// Volume is an immutable handle to a mounted FAT32 volume: a device and
// its parsed BPB.
type Volume struct {
	device blockdev.Device
	bpb    *bpb.BPB
	fat    *fatutil.FAT
}

// Mount reads sector 0 from device, parses the BPB, and returns a Volume.
// It fails if the media isn't FAT32 or doesn't use 512-byte sectors
// (spec.md §4.1).
func Mount(device blockdev.Device) (*Volume, error) {
	b, err := bpb.Parse(device)
	if err != nil {
		return nil, err
	}
	return &Volume{
		device: device,
		bpb:    b,
		fat:    fatutil.New(device, b),
	}, nil
}

// RootDir returns a directory handle rooted at the volume's root cluster.
func (v *Volume) RootDir() *directory.Directory {
	return directory.New(v.device, v.bpb, v.fat, v.bpb.RootCluster)
}

// Label returns the volume label, trailing spaces trimmed.
func (v *Volume) Label() string {
	return v.bpb.Label()
}

// BPB exposes the parsed geometry for callers (such as fsck) that need it
// directly.
func (v *Volume) BPB() *bpb.BPB {
	return v.bpb
}

// FAT exposes the volume's FAT engine.
func (v *Volume) FAT() *fatutil.FAT {
	return v.fat
}

// Device exposes the underlying block device, for callers (such as fsck)
// that need to read raw cluster contents directly.
func (v *Volume) Device() blockdev.Device {
	return v.device
}

// String gives a human-readable summary of the volume's geometry,
// mirroring the original source's hand-rolled Debug impl for Volume.
func (v *Volume) String() string {
	return fmt.Sprintf(
		"Volume{label=%q bytes_per_sector=%d sectors_per_cluster=%d "+
			"num_fats=%d total_sectors=%d sectors_per_fat=%d root_cluster=%d}",
		v.Label(), v.bpb.BytePerSector, v.bpb.SectorPerCluster, v.bpb.NumFATs,
		v.bpb.TotalSectors, v.bpb.SectorsPerFAT, v.bpb.RootCluster)
}
