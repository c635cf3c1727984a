package blockdev

import "os"

// FileDevice adapts an *os.File (a raw disk handle or a disk image file)
// into a Device. It is the host-OS glue spec.md §1 calls "out of scope",
// kept minimal: it does nothing but seek and read/write.
type FileDevice struct {
	f *os.File
}

func NewFileDevice(f *os.File) *FileDevice {
	return &FileDevice{f: f}
}

func (d *FileDevice) ReadSectors(buf []byte, byteOffset int64, numSectors int) error {
	_, err := d.f.ReadAt(buf[:numSectors*SectorSize], byteOffset)
	return err
}

func (d *FileDevice) WriteSectors(buf []byte, byteOffset int64, numSectors int) error {
	_, err := d.f.WriteAt(buf[:numSectors*SectorSize], byteOffset)
	return err
}
