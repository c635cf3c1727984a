package fsck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/fat32test"
	"github.com/embeddedfs/fat32/fsck"
	"github.com/embeddedfs/fat32/volume"
)

func newMountedVolume(t *testing.T) *volume.Volume {
	t.Helper()
	return fat32test.FormattedVolume(t, fat32test.DefaultOptions("TESTVOL"))
}

func TestCheck__FreshlyFormattedVolumePasses(t *testing.T) {
	v := newMountedVolume(t)
	report := fsck.Check(v)
	assert.True(t, report.OK(), "%v", report.Violations)
}

func TestCheck__VolumeWithEntriesPasses(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()
	require.NoError(t, root.CreateDir("SUBDIR"))
	require.NoError(t, root.CreateFile("A"))

	report := fsck.Check(v)
	assert.True(t, report.OK(), "%v", report.Violations)
}

func TestCheck__CyclicSubdirectoryChainIsReported(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()
	require.NoError(t, root.CreateDir("SUBDIR"))
	sub, err := root.OpenDir("SUBDIR")
	require.NoError(t, err)

	// Corrupt the chain: make SUBDIR's own cluster point to itself,
	// forming a one-cluster cycle a well-formed FAT never produces.
	require.NoError(t, v.FAT().Edit(sub.FirstCluster, sub.FirstCluster))

	report := fsck.Check(v)
	require.False(t, report.OK())
	require.NotNil(t, report.Violations)
	assert.Len(t, report.Violations.Errors, 1,
		"a single self-referencing cluster must report exactly one violation, got %v", report.Violations)
}
