// Package fat32test provides small helpers for building in-memory test
// volumes, grounded on the teacher's testing.CreateRandomImage and
// testing.LoadDiskImage (testing/blockcache.go, testing/images.go):
// the same "random backing bytes wrapped in a seekable stream" shape,
// adapted from disko's block-cache fixtures to blockdev.Device fixtures.
//
// The teacher's blockcache-backed fixture (testing.CreateDefaultCache) has
// no counterpart here: this driver has no block-cache layer between
// blockdev.Device and the FAT/directory engines, so there is nothing for
// it to wrap.
package fat32test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/fatfmt"
	"github.com/embeddedfs/fat32/volume"
)

// RandomImage returns totalSectors*blockdev.SectorSize bytes of random
// data, failing t if the system RNG errors.
func RandomImage(t *testing.T, totalSectors int) []byte {
	buf := make([]byte, totalSectors*blockdev.SectorSize)
	_, err := rand.Read(buf)
	require.NoError(t, err, "failed to generate random image bytes")
	return buf
}

// NewMemoryDevice wraps image in a blockdev.Device backed by memory, for
// tests that want to hand-assemble a specific boot sector/FAT/directory
// layout rather than format one.
func NewMemoryDevice(image []byte) blockdev.Device {
	return blockdev.NewMemoryDevice(image)
}

// DefaultOptions is the scratch-volume geometry every package's tests
// format with unless a test needs something unusual: small enough to
// build instantly, big enough to exercise a real multi-cluster FAT.
func DefaultOptions(label string) fatfmt.Options {
	return fatfmt.Options{
		Label:             label,
		TotalSectors:      1024,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           2,
	}
}

// FormattedDevice returns a memory device holding a freshly formatted
// volume built from opts, for tests (like bpb's) that exercise a package
// below volume and don't want a Volume handle.
func FormattedDevice(t *testing.T, opts fatfmt.Options) blockdev.Device {
	t.Helper()
	dev := NewMemoryDevice(make([]byte, int(opts.TotalSectors)*blockdev.SectorSize))
	require.NoError(t, fatfmt.Format(dev, opts), "fatfmt.Format")
	return dev
}

// FormattedVolume formats a scratch device per opts and mounts it, the
// shared setup the directory/file/fatutil/fsck test suites all need.
func FormattedVolume(t *testing.T, opts fatfmt.Options) *volume.Volume {
	t.Helper()
	v, err := volume.Mount(FormattedDevice(t, opts))
	require.NoError(t, err, "volume.Mount")
	return v
}
