package directory

import (
	"github.com/embeddedfs/fat32/dirent"
	"github.com/embeddedfs/fat32/ferrors"
)

// creationInfoByte is written to offset 0x0C of every entry this driver
// creates, matching the fixed value the original source writes there.
const creationInfoByte = 0x18

// CreateDir creates an empty subdirectory named name inside dir.
//
// Unlike the original source (and spec.md's unmodified baseline), the new
// cluster is zeroed and populated with "." and ".." entries — spec.md §9's
// Open Questions section requires this of any complete implementation.
func (dir *Directory) CreateDir(name string) error {
	cluster, offset, err := dir.prepareCreate(name, dirent.AttrDirectory)
	if err != nil {
		return err
	}

	if err := dir.zeroCluster(cluster); err != nil {
		return err
	}
	if err := dir.writeDotEntries(cluster); err != nil {
		return err
	}

	return dir.writeEntry(offset, name, dirent.AttrDirectory, cluster)
}

// CreateFile creates an empty regular file named name inside dir.
func (dir *Directory) CreateFile(name string) error {
	cluster, offset, err := dir.prepareCreate(name, dirent.AttrArchive)
	if err != nil {
		return err
	}
	return dir.writeEntry(offset, name, dirent.AttrArchive, cluster)
}

// prepareCreate validates name, finds a blank directory slot and a free
// FAT cluster, and claims the cluster as end-of-chain — in that order, so
// a failure between allocating the cluster and writing the entry leaves
// at most an orphaned cluster rather than a dangling entry (spec.md §7).
func (dir *Directory) prepareCreate(name string, attr uint8) (cluster uint32, slotOffset int64, err error) {
	if dirent.ContainsIllegalChar(name) {
		return 0, 0, ferrors.NewDirError(ferrors.IllegalName, name)
	}
	if !dirent.IsShortNameCandidate(name) {
		return 0, 0, ferrors.NewDirError(ferrors.IllegalName, name)
	}

	slotOffset, err = dir.findBlankSlot()
	if err != nil {
		return 0, 0, err
	}

	cluster, err = dir.fat.FindFree()
	if err != nil {
		return 0, 0, err
	}
	if err := dir.fat.Edit(cluster, 0x0FFFFFFF); err != nil {
		return 0, 0, err
	}

	return cluster, slotOffset, nil
}

// findBlankSlot scans dir for the first slot whose first byte is 0x00
// (spec.md §4.5 step 3). Invariant 5 requires creation to never overwrite
// a non-0x00 entry, so this never returns a slot holding a live or
// deleted entry.
func (dir *Directory) findBlankSlot() (int64, error) {
	cursor, err := newSlotCursor(dir)
	if err != nil {
		return 0, err
	}
	for i := 0; ; i++ {
		raw, offset, ok, err := cursor.slot(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			// The directory's allocated chain ran out without a blank
			// slot; growing the directory by one more cluster is out of
			// scope for this design (matches the original's limitation).
			return 0, ferrors.NewFatError(ferrors.NoSpace)
		}
		if raw[0x00] == dirent.EntryEndOfDirectory {
			return offset, nil
		}
	}
}

// writeEntry writes a single 32-byte short entry for name at byte offset
// slotOffset within dir's cluster chain, per spec.md §4.5 step 5.
func (dir *Directory) writeEntry(slotOffset int64, name string, attr uint8, cluster uint32) error {
	nameField, ok := dirent.EncodeShortName8(name)
	if !ok {
		return ferrors.NewDirError(ferrors.IllegalName, name)
	}

	entry := dirent.ShortEntry{
		Attributes: attr,
	}
	copy(entry.Name[:], nameField[:8])
	copy(entry.Extension[:], nameField[8:11])
	entry.SetFirstCluster(cluster)

	raw := entry.Encode()
	raw[0x0C] = creationInfoByte
	return dir.writeRawSlot(slotOffset, raw)
}

// writeRawSlot writes raw (exactly dirent.Size bytes) at byte offset
// slotOffset within dir's cluster chain.
func (dir *Directory) writeRawSlot(slotOffset int64, raw []byte) error {
	bytesPerCluster := dir.bpb.BytesPerCluster()
	clusterIx := int(slotOffset) / bytesPerCluster
	within := int(slotOffset) % bytesPerCluster

	clusters, err := dir.fat.Slice(dir.FirstCluster)
	if err != nil {
		return err
	}
	if clusterIx >= len(clusters) {
		return ferrors.NewFatError(ferrors.NoSpace)
	}

	buf := make([]byte, bytesPerCluster)
	clusterOffset := dir.bpb.ClusterByteOffset(clusters[clusterIx])
	sectors := int(dir.bpb.SectorPerCluster)
	if err := dir.device.ReadSectors(buf, clusterOffset, sectors); err != nil {
		return ferrors.WrapIo("directory.create", err)
	}

	copy(buf[within:within+dirent.Size], raw)

	if err := dir.device.WriteSectors(buf, clusterOffset, sectors); err != nil {
		return ferrors.WrapIo("directory.create", err)
	}
	return nil
}

// zeroCluster fills cluster with null bytes so a freshly created
// directory has a clean slate to write "." and ".." into.
func (dir *Directory) zeroCluster(cluster uint32) error {
	buf := make([]byte, dir.bpb.BytesPerCluster())
	offset := dir.bpb.ClusterByteOffset(cluster)
	return ferrors.WrapIo("directory.zeroCluster",
		dir.device.WriteSectors(buf, offset, int(dir.bpb.SectorPerCluster)))
}

// writeDotEntries writes "." (pointing at cluster itself) and ".."
// (pointing at dir's own first cluster, or at cluster 0 for a
// subdirectory of the root per the FAT32 convention that ".." in a
// top-level directory references cluster 0) into the newly zeroed
// cluster.
func (dir *Directory) writeDotEntries(cluster uint32) error {
	dot := shortDotEntry(".", cluster)
	dotdot := shortDotEntry("..", dir.dotDotTarget())

	bytesPerCluster := dir.bpb.BytesPerCluster()
	buf := make([]byte, bytesPerCluster)
	offset := dir.bpb.ClusterByteOffset(cluster)
	sectors := int(dir.bpb.SectorPerCluster)

	if err := dir.device.ReadSectors(buf, offset, sectors); err != nil {
		return ferrors.WrapIo("directory.writeDotEntries", err)
	}
	copy(buf[0:dirent.Size], dot.Encode())
	copy(buf[dirent.Size:2*dirent.Size], dotdot.Encode())
	buf[0x0C] = creationInfoByte
	buf[dirent.Size+0x0C] = creationInfoByte
	return ferrors.WrapIo("directory.writeDotEntries",
		dir.device.WriteSectors(buf, offset, sectors))
}

// dotDotTarget returns the cluster ".." should reference: the parent's
// first cluster, except FAT32 stores 0 (not the real root cluster number)
// when the parent is the root directory.
func (dir *Directory) dotDotTarget() uint32 {
	if dir.FirstCluster == dir.rootCluster() {
		return 0
	}
	return dir.FirstCluster
}

func shortDotEntry(name string, cluster uint32) dirent.ShortEntry {
	var nameField [8]byte
	var extField [3]byte
	for i := range nameField {
		nameField[i] = ' '
	}
	for i := range extField {
		extField[i] = ' '
	}
	copy(nameField[:], name)
	e := dirent.ShortEntry{
		Name:       nameField,
		Extension:  extField,
		Attributes: dirent.AttrDirectory,
	}
	e.SetFirstCluster(cluster)
	return e
}
