package bpb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/bpb"
	"github.com/embeddedfs/fat32/fat32test"
	"github.com/embeddedfs/fat32/ferrors"
)

func newFormattedDevice(t *testing.T) blockdev.Device {
	t.Helper()
	return fat32test.FormattedDevice(t, fat32test.DefaultOptions("TESTVOL"))
}

func TestParse__ValidFat32Image(t *testing.T) {
	dev := newFormattedDevice(t)
	b, err := bpb.Parse(dev)
	require.NoError(t, err)

	assert.EqualValues(t, 512, b.BytePerSector)
	assert.EqualValues(t, 2, b.NumFATs)
	assert.Equal(t, "TESTVOL", b.Label())
}

func TestParse__RejectsNonFat32Signature(t *testing.T) {
	image := make([]byte, blockdev.SectorSize)
	copy(image[0x52:0x5A], "NTFS    ")
	image[510], image[511] = 0x55, 0xAA
	dev := blockdev.NewMemoryDevice(image)

	_, err := bpb.Parse(dev)
	require.Error(t, err)

	var mountErr *ferrors.MountError
	require.ErrorAs(t, err, &mountErr)
	assert.Equal(t, ferrors.NotFat32, mountErr.Kind)
}

func TestParse__RejectsNonStandardSectorSize(t *testing.T) {
	image := make([]byte, blockdev.SectorSize)
	copy(image[0x52:0x5A], "FAT32   ")
	leb := []byte{0x00, 0x04} // 1024 bytes/sector, little-endian
	copy(image[0x0B:0x0D], leb)
	dev := blockdev.NewMemoryDevice(image)

	_, err := bpb.Parse(dev)
	require.Error(t, err)

	var mountErr *ferrors.MountError
	require.ErrorAs(t, err, &mountErr)
	assert.Equal(t, ferrors.UnsupportedSectorSize, mountErr.Kind)
}

func TestBPB_ClusterByteOffset__AlignsToSectorBoundary(t *testing.T) {
	dev := newFormattedDevice(t)
	b, err := bpb.Parse(dev)
	require.NoError(t, err)

	offset := b.ClusterByteOffset(b.RootCluster)
	assert.EqualValues(t, 0, offset%int64(b.BytePerSector))
}
