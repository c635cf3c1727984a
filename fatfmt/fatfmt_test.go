package fatfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/fatfmt"
	"github.com/embeddedfs/fat32/volume"
)

func TestFormat__ThenMountThenCreateRoundTrips(t *testing.T) {
	image := make([]byte, 2048*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)

	require.NoError(t, fatfmt.Format(dev, fatfmt.Options{
		Label:             "FRESH",
		TotalSectors:      2048,
		SectorsPerCluster: 2,
		ReservedSectors:   32,
		NumFATs:           2,
	}))

	v, err := volume.Mount(dev)
	require.NoError(t, err)
	assert.Equal(t, "FRESH", v.Label())

	root := v.RootDir()
	entries, err := root.List()
	require.NoError(t, err)
	assert.Empty(t, entries, "a freshly formatted volume has no entries")

	require.NoError(t, root.CreateFile("NEWFILE"))
	entries, err = root.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "NEWFILE", entries[0].Name)
}

func TestFormat__RejectsZeroSectorsPerCluster(t *testing.T) {
	image := make([]byte, 2048*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)
	err := fatfmt.Format(dev, fatfmt.Options{
		TotalSectors:      2048,
		SectorsPerCluster: 0,
		ReservedSectors:   32,
		NumFATs:           2,
	})
	assert.Error(t, err)
}

func TestFormat__RejectsVolumeSmallerThanMinimum(t *testing.T) {
	image := make([]byte, 2048*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)
	err := fatfmt.Format(dev, fatfmt.Options{
		TotalSectors:      10,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           2,
	})
	assert.Error(t, err)
}

func TestGeometryPreset__UnknownSlugFails(t *testing.T) {
	_, ok := fatfmt.GeometryPreset("does-not-exist", "LABEL")
	assert.False(t, ok)
}

func TestGeometryPreset__KnownSlugAppliesLabel(t *testing.T) {
	opts, ok := fatfmt.GeometryPreset("usb-64m", "MYLABEL")
	require.True(t, ok)
	assert.Equal(t, "MYLABEL", opts.Label)
	assert.EqualValues(t, 131072, opts.TotalSectors)
}
