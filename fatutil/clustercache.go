package fatutil

import "github.com/boljen/go-bitmap"

// clusterCache mirrors, in a bitmap, which cluster indices are known to be
// free. It never remembers a FAT entry's *value* — only whether the last
// scan saw it as free — so it does not reintroduce the metadata caching
// spec.md §1 rules out. It exists purely to make repeated FindFree calls
// on the same FAT handle (the common case while creating many entries in
// one directory) skip clusters the previous scan already proved occupied.
//
// Modeled on the teacher's bitmap allocator (drivers/common/allocatormap.go),
// generalized from "block allocated/free" to "FAT entry known free", and
// rebuilt lazily rather than eagerly since a freshly mounted volume has no
// reason to pay for a full-FAT scan before the first allocation.
type clusterCache struct {
	known      bitmap.Bitmap
	totalUnits uint32
	built      bool
	// cursor is the lowest cluster index not yet proven occupied by a
	// prior scan; FindFree never needs to look below it again.
	cursor uint32
}

func newClusterCache(totalUnits uint32) *clusterCache {
	return &clusterCache{totalUnits: totalUnits}
}

func (c *clusterCache) ensure() {
	if !c.built {
		c.known = bitmap.New(int(c.totalUnits))
		c.built = true
		c.cursor = firstValidCluster
	}
}

// markOccupied records that cluster is not free, so future scans skip it.
func (c *clusterCache) markOccupied(cluster uint32) {
	c.ensure()
	if cluster < c.totalUnits {
		c.known.Set(int(cluster), true)
		if cluster == c.cursor {
			c.advanceCursor()
		}
	}
}

// isKnownOccupied reports whether a prior scan already proved cluster
// occupied, so FindFree can skip re-reading its entry.
func (c *clusterCache) isKnownOccupied(cluster uint32) bool {
	c.ensure()
	return cluster < c.totalUnits && cluster >= c.cursor && c.known.Get(int(cluster))
}

// advanceCursor pushes the low-water mark past every contiguous
// known-occupied cluster starting at the current cursor.
func (c *clusterCache) advanceCursor() {
	for c.cursor < c.totalUnits && c.known.Get(int(c.cursor)) {
		c.cursor++
	}
}

// scanFrom returns the cluster index FindFree should resume scanning from.
func (c *clusterCache) scanFrom() uint32 {
	c.ensure()
	return c.cursor
}

// invalidate forgets everything. Called after any Edit, since an edit can
// either free a cluster the cache thought was occupied, or occupy one it
// thought was free.
func (c *clusterCache) invalidate() {
	c.built = false
	c.known = nil
	c.cursor = 0
}
