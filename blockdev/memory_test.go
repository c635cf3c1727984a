package blockdev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/blockdev"
)

func TestMemoryDevice__WriteThenReadSectors(t *testing.T) {
	image := make([]byte, 4*blockdev.SectorSize)
	dev := blockdev.NewMemoryDevice(image)

	payload := make([]byte, 2*blockdev.SectorSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, dev.WriteSectors(payload, blockdev.SectorSize, 2))

	out := make([]byte, 2*blockdev.SectorSize)
	require.NoError(t, dev.ReadSectors(out, blockdev.SectorSize, 2))
	assert.Equal(t, payload, out)
}
