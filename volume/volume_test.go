package volume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/fatfmt"
	"github.com/embeddedfs/fat32/volume"
)

func TestMount__ValidImageSucceeds(t *testing.T) {
	image := make([]byte, 1024*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)
	require.NoError(t, fatfmt.Format(dev, fatfmt.Options{
		Label:             "MYVOLUME",
		TotalSectors:      1024,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           2,
	}))

	v, err := volume.Mount(dev)
	require.NoError(t, err)
	assert.Equal(t, "MYVOLUME", v.Label())
	assert.NotNil(t, v.RootDir())
}

func TestMount__UnformattedImageFails(t *testing.T) {
	image := make([]byte, blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)

	_, err := volume.Mount(dev)
	assert.Error(t, err)
}

func TestVolume_String__ContainsLabel(t *testing.T) {
	image := make([]byte, 1024*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)
	require.NoError(t, fatfmt.Format(dev, fatfmt.Options{
		Label:             "LBL",
		TotalSectors:      1024,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           1,
	}))
	v, err := volume.Mount(dev)
	require.NoError(t, err)
	assert.Contains(t, v.String(), "LBL")
}
