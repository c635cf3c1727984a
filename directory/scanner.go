// Package directory implements the FAT32 directory-entry scanner and
// creation logic: resolving a name to a directory entry (spec.md §4.5),
// including VFAT long-name reassembly, and writing new short-name-only
// entries.
package directory

import (
	"strings"

	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/bpb"
	"github.com/embeddedfs/fat32/dirent"
	"github.com/embeddedfs/fat32/fatutil"
	"github.com/embeddedfs/fat32/ferrors"
)

// Directory is a value-like handle to a FAT32 directory: a device, its
// parsed BPB, a FAT engine, and the cluster the directory's contents
// start at. It holds no cached entry data.
type Directory struct {
	device       blockdev.Device
	bpb          *bpb.BPB
	fat          *fatutil.FAT
	FirstCluster uint32
}

// New returns a Directory handle rooted at firstCluster.
func New(device blockdev.Device, b *bpb.BPB, fat *fatutil.FAT, firstCluster uint32) *Directory {
	return &Directory{device: device, bpb: b, fat: fat, FirstCluster: firstCluster}
}

// rootCluster returns the volume's root directory cluster.
func (dir *Directory) rootCluster() uint32 {
	return dir.bpb.RootCluster
}

// resolved is the result of a successful scan: the raw 32-byte short entry
// plus its directory-relative byte offset (spec.md §4.5).
type resolved struct {
	entry  dirent.ShortEntry
	offset int64
}

// slotCursor lazily loads whichever cluster in the directory's chain a
// given slot index falls in, one full cluster at a time, and never
// mutates the device.
type slotCursor struct {
	dir             *Directory
	clusters        []uint32
	slotsPerCluster int
	loadedClusterIx int
	buf             []byte
}

func newSlotCursor(dir *Directory) (*slotCursor, error) {
	clusters, err := dir.fat.Slice(dir.FirstCluster)
	if err != nil {
		return nil, err
	}
	return &slotCursor{
		dir:             dir,
		clusters:        clusters,
		slotsPerCluster: dir.bpb.BytesPerCluster() / dirent.Size,
		loadedClusterIx: -1,
	}, nil
}

// slot returns the 32-byte entry at slot index i and its directory-relative
// byte offset, or ok=false if i runs past the allocated chain.
func (c *slotCursor) slot(i int) (raw []byte, byteOffset int64, ok bool, err error) {
	clusterIx := i / c.slotsPerCluster
	if clusterIx >= len(c.clusters) {
		return nil, 0, false, nil
	}
	within := i % c.slotsPerCluster

	if clusterIx != c.loadedClusterIx {
		c.buf = make([]byte, c.dir.bpb.BytesPerCluster())
		cluster := c.clusters[clusterIx]
		offset := c.dir.bpb.ClusterByteOffset(cluster)
		sectors := int(c.dir.bpb.SectorPerCluster)
		if err := c.dir.device.ReadSectors(c.buf, offset, sectors); err != nil {
			return nil, 0, false, ferrors.WrapIo("directory.scan", err)
		}
		c.loadedClusterIx = clusterIx
	}

	start := within * dirent.Size
	byteOffset = int64(clusterIx)*int64(c.slotsPerCluster*dirent.Size) + int64(start)
	return c.buf[start : start+dirent.Size], byteOffset, true, nil
}

// resolve scans the directory for name, following spec.md §4.5's
// algorithm exactly: short-name targets skip whole LFN groups without
// inspecting them; long-name targets reassemble LFN fragments in reverse
// disk order and compare against a shrinking suffix of name.
func resolve(dir *Directory, name string) (resolved, error) {
	if dirent.ContainsIllegalChar(name) {
		return resolved{}, ferrors.NewDirError(ferrors.IllegalName, name)
	}

	cursor, err := newSlotCursor(dir)
	if err != nil {
		return resolved{}, err
	}

	isShortTarget := dirent.IsShortNameCandidate(name)
	remaining := name

	for i := 0; ; i++ {
		raw, offset, ok, err := cursor.slot(i)
		if err != nil {
			return resolved{}, err
		}
		if !ok {
			return resolved{}, ferrors.NewDirError(ferrors.NotFound, name)
		}

		switch raw[0x00] {
		case dirent.EntryEndOfDirectory:
			return resolved{}, ferrors.NewDirError(ferrors.NotFound, name)
		case dirent.EntryDeleted:
			continue
		}

		if raw[0x0B] == 0x0F {
			ordinal := dirent.Ordinal(raw[0x00])

			if isShortTarget {
				i += ordinal
				continue
			}

			fragment := dirent.DecodeLongNameFragment(raw)
			suffixStart := suffixStartIndex(remaining, 13)
			if remaining[suffixStart:] != fragment {
				remaining = name
				i += ordinal
				continue
			}
			if suffixStart == 0 && ordinal == 1 {
				// Whole name matched; the next non-LFN slot is the
				// resolved short entry.
				shortRaw, shortOffset, ok, err := cursor.slot(i + 1)
				if err != nil {
					return resolved{}, err
				}
				if !ok || shortRaw[0x0B] == 0x0F || shortRaw[0x00] == dirent.EntryEndOfDirectory {
					return resolved{}, ferrors.NewDirError(ferrors.NotFound, name)
				}
				return resolved{entry: dirent.DecodeShortEntry(shortRaw), offset: shortOffset}, nil
			}
			remaining = remaining[:suffixStart]
			continue
		}

		if isShortTarget {
			entry := dirent.DecodeShortEntry(raw)
			if strings.EqualFold(dirent.DecodeDisplayName(entry), name) {
				return resolved{entry: entry, offset: offset}, nil
			}
		}
	}
}

// suffixStartIndex returns the byte index in s immediately after its
// first n runes, or 0 if s has n or fewer runes (spec.md §4.5's
// get_slice_index, generalized to UTF-8).
func suffixStartIndex(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return 0
}
