// Package fatutil implements the FAT32 File Allocation Table engine: chain
// traversal, free-cluster scanning/allocation, and entry edits. Only the
// primary FAT (FAT1) is consulted for reads; edits are mirrored to every
// FAT copy the BPB reports (spec.md §9 recommends this over the original's
// single-FAT-only behavior).
package fatutil

import (
	"github.com/embeddedfs/fat32/blockdev"
	"github.com/embeddedfs/fat32/bpb"
	"github.com/embeddedfs/fat32/ferrors"
	"github.com/embeddedfs/fat32/leb"
)

const (
	firstValidCluster = 2
	entrySize         = 4
	reservedBitsMask  = 0xF0000000
	valueBitsMask     = 0x0FFFFFFF
	badCluster        = 0x0FFFFFF7
	endOfChainLow     = 0x0FFFFFF8
	endOfChainHigh    = 0x0FFFFFFF
)

// FAT is a handle to a mounted volume's File Allocation Table. It holds no
// buffered sector contents: every Edit/Next/FindFree call issues its own
// device I/O.
type FAT struct {
	device blockdev.Device
	bpb    *bpb.BPB
	cache  *clusterCache
}

// New returns a FAT engine bound to device using the geometry in b.
func New(device blockdev.Device, b *bpb.BPB) *FAT {
	return &FAT{
		device: device,
		bpb:    b,
		cache:  newClusterCache(b.TotalDataClusters() + firstValidCluster),
	}
}

// entryLocation returns the sector (relative to FAT1) and within-sector
// byte offset of the 4-byte entry for cluster.
func entryLocation(cluster uint32) (sectorInFAT int64, byteInSector int) {
	byteOffset := int64(cluster) * entrySize
	return byteOffset / blockdev.SectorSize, int(byteOffset % blockdev.SectorSize)
}

// readEntry reads the raw (unmasked) 32-bit FAT1 entry for cluster.
func (f *FAT) readEntry(cluster uint32) (uint32, error) {
	sectorInFAT, byteInSector := entryLocation(cluster)
	sector := make([]byte, blockdev.SectorSize)
	offset := f.bpb.Fat1ByteOffset() + sectorInFAT*blockdev.SectorSize
	if err := f.device.ReadSectors(sector, offset, 1); err != nil {
		return 0, ferrors.WrapIo("fat.readEntry", err)
	}
	return leb.Uint32(sector[byteInSector : byteInSector+entrySize]), nil
}

// Edit overwrites the FAT entry for cluster with value, preserving the
// reserved top 4 bits of whatever was there before (spec.md §4.3/§9:
// the original masks those bits away, which this implementation does not
// reproduce). The edit is mirrored to every FAT copy the BPB reports.
func (f *FAT) Edit(cluster uint32, value uint32) error {
	sectorInFAT, byteInSector := entryLocation(cluster)
	sector := make([]byte, blockdev.SectorSize)

	for fatIndex := 0; fatIndex < int(f.bpb.NumFATs); fatIndex++ {
		offset := f.bpb.FatByteOffset(fatIndex) + sectorInFAT*blockdev.SectorSize
		if err := f.device.ReadSectors(sector, offset, 1); err != nil {
			return ferrors.WrapIo("fat.Edit", err)
		}

		old := leb.Uint32(sector[byteInSector : byteInSector+entrySize])
		newValue := (old & reservedBitsMask) | (value & valueBitsMask)
		leb.PutUint32(sector[byteInSector:byteInSector+entrySize], newValue)

		if err := f.device.WriteSectors(sector, offset, 1); err != nil {
			return ferrors.WrapIo("fat.Edit", err)
		}
	}

	f.cache.invalidate()
	return nil
}

// Next returns the cluster that follows cluster in its chain. ok is false
// if cluster's entry is end-of-chain or marked bad — callers should treat
// either as "no successor" (spec.md §4.3).
func (f *FAT) Next(cluster uint32) (next uint32, ok bool, err error) {
	raw, err := f.readEntry(cluster)
	if err != nil {
		return 0, false, err
	}
	value := raw & valueBitsMask
	if value < firstValidCluster || value >= endOfChainLow || value == badCluster {
		return 0, false, nil
	}
	return value, true, nil
}

// IsEndOfChain reports whether the raw (already-masked) FAT entry value
// marks a terminal cluster.
func IsEndOfChain(value uint32) bool {
	masked := value & valueBitsMask
	return masked >= endOfChainLow && masked <= endOfChainHigh
}

// ChainIterator walks a cluster chain starting from a fixed cluster,
// bounding iteration by the volume's total cluster count so a corrupted
// FAT with a cycle can never cause an infinite loop (spec.md §8 requires
// this even though the original source lacks it). It is restartable via
// Reset.
type ChainIterator struct {
	fat     *FAT
	start   uint32
	current uint32
	started bool
	done    bool
	steps   uint32
	maxStep uint32
}

// Chain returns a restartable iterator over the cluster chain beginning at
// start.
func (f *FAT) Chain(start uint32) *ChainIterator {
	return &ChainIterator{
		fat:     f,
		start:   start,
		maxStep: f.bpb.TotalDataClusters() + firstValidCluster + 1,
	}
}

// Reset rewinds the iterator back to its starting cluster.
func (it *ChainIterator) Reset() {
	it.started = false
	it.done = false
	it.steps = 0
}

// Next returns the next cluster in the chain, or ok=false once the chain
// is exhausted (end-of-chain reached, or the cycle-detection bound hit).
func (it *ChainIterator) Next() (cluster uint32, ok bool, err error) {
	if it.done {
		return 0, false, nil
	}

	if !it.started {
		it.started = true
		it.current = it.start
		it.steps = 1
		return it.current, true, nil
	}

	if it.steps >= it.maxStep {
		// Cycle-detection bound exceeded: the chain is longer than the
		// volume has clusters, which is only possible if it loops.
		it.done = true
		return 0, false, nil
	}

	next, ok, err := it.fat.Next(it.current)
	if err != nil {
		it.done = true
		return 0, false, err
	}
	if !ok {
		it.done = true
		return 0, false, nil
	}

	it.current = next
	it.steps++
	return it.current, true, nil
}

// Slice materializes the entire chain starting at start into a slice,
// subject to the same cycle-detection bound as ChainIterator.
func (f *FAT) Slice(start uint32) ([]uint32, error) {
	it := f.Chain(start)
	var clusters []uint32
	for {
		cluster, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}

// FindFree scans the FAT sector by sector and returns the lowest-indexed
// free cluster (spec.md §4.3's tie-break rule). It fails with
// ferrors.NoSpace once the FAT is exhausted.
func (f *FAT) FindFree() (uint32, error) {
	total := f.bpb.TotalDataClusters() + firstValidCluster
	sector := make([]byte, blockdev.SectorSize)
	entriesPerSector := blockdev.SectorSize / entrySize

	start := f.cache.scanFrom()
	startSector := int64(start) / int64(entriesPerSector)

	for sectorInFAT := startSector; ; sectorInFAT++ {
		firstClusterInSector := uint32(sectorInFAT) * uint32(entriesPerSector)
		if firstClusterInSector >= total {
			return 0, ferrors.NewFatError(ferrors.NoSpace)
		}

		offset := f.bpb.Fat1ByteOffset() + sectorInFAT*blockdev.SectorSize
		if err := f.device.ReadSectors(sector, offset, 1); err != nil {
			return 0, ferrors.WrapIo("fat.FindFree", err)
		}

		for i := 0; i < entriesPerSector; i++ {
			cluster := firstClusterInSector + uint32(i)
			if cluster < firstValidCluster {
				continue
			}
			if cluster >= total {
				break
			}
			if f.cache.isKnownOccupied(cluster) {
				continue
			}

			entry := leb.Uint32(sector[i*entrySize : i*entrySize+entrySize])
			if entry&valueBitsMask == 0 {
				return cluster, nil
			}
			f.cache.markOccupied(cluster)
		}
	}
}
