// Package file implements the FAT-chain-driven sequential file reader
// (spec.md §4.6).
package file

import (
	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/bpb"
	"github.com/embeddedfs/fat32/fatutil"
	"github.com/embeddedfs/fat32/ferrors"
)

// File is a value-like handle to a regular file: a device, its parsed
// BPB, a FAT engine, the file's starting cluster, and its length in
// bytes. It holds no buffered content.
type File struct {
	device       blockdev.Device
	bpb          *bpb.BPB
	fat          *fatutil.FAT
	firstCluster uint32
	length       int
}

// New returns a File handle for a file starting at firstCluster with the
// given length in bytes (the value stored in its directory entry).
func New(device blockdev.Device, b *bpb.BPB, fat *fatutil.FAT, firstCluster uint32, length int) *File {
	return &File{device: device, bpb: b, fat: fat, firstCluster: firstCluster, length: length}
}

// Length returns the file's size in bytes, as recorded in its directory
// entry.
func (f *File) Length() int { return f.length }

// Read walks the FAT chain starting at the file's first cluster and fills
// out with the file's full contents. It requires len(out) >= f.Length()
// and fails with ferrors.BufferTooSmall otherwise. On success it returns
// f.Length(); bytes in out beyond that are undefined (spec.md §4.6).
func (f *File) Read(out []byte) (int, error) {
	if len(out) < f.length {
		return 0, ferrors.NewFileError(ferrors.BufferTooSmall)
	}
	if f.length == 0 {
		return 0, nil
	}

	bytesPerCluster := f.bpb.BytesPerCluster()
	sectorsPerCluster := int(f.bpb.SectorPerCluster)

	it := f.fat.Chain(f.firstCluster)
	written := 0

	for written < f.length {
		cluster, ok, err := it.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}

		offset := f.bpb.ClusterByteOffset(cluster)
		remaining := f.length - written

		if remaining >= bytesPerCluster {
			if err := f.device.ReadSectors(out[written:written+bytesPerCluster], offset, sectorsPerCluster); err != nil {
				return 0, ferrors.WrapIo("file.Read", err)
			}
			written += bytesPerCluster
			continue
		}

		// Last, partial cluster: read the full cluster into a scratch
		// buffer and copy only the meaningful tail bytes, since a block
		// device only ever transfers whole sectors.
		scratch := make([]byte, bytesPerCluster)
		if err := f.device.ReadSectors(scratch, offset, sectorsPerCluster); err != nil {
			return 0, ferrors.WrapIo("file.Read", err)
		}
		copy(out[written:written+remaining], scratch[:remaining])
		written += remaining
	}

	return f.length, nil
}
