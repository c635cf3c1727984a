package blockdev

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// MemoryDevice is a Device backed entirely by RAM, used throughout this
// module's tests and by fat32test's fixtures. It wraps a plain []byte
// with bytesextra.NewReadWriteSeeker the same way the teacher's
// testing.LoadDiskImage does, to get an io.ReadWriteSeeker out of a byte
// slice without copying it.
type MemoryDevice struct {
	stream io.ReadWriteSeeker
}

// NewMemoryDevice wraps image in a Device. image is not copied; writes
// through the returned Device mutate it in place.
func NewMemoryDevice(image []byte) *MemoryDevice {
	return &MemoryDevice{stream: bytesextra.NewReadWriteSeeker(image)}
}

func (d *MemoryDevice) ReadSectors(buf []byte, byteOffset int64, numSectors int) error {
	if _, err := d.stream.Seek(byteOffset, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(d.stream, buf[:numSectors*SectorSize])
	return err
}

func (d *MemoryDevice) WriteSectors(buf []byte, byteOffset int64, numSectors int) error {
	if _, err := d.stream.Seek(byteOffset, io.SeekStart); err != nil {
		return err
	}
	_, err := d.stream.Write(buf[:numSectors*SectorSize])
	return err
}
