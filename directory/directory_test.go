package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/fat32test"
	"github.com/embeddedfs/fat32/volume"
)

func newMountedVolume(t *testing.T) *volume.Volume {
	t.Helper()
	return fat32test.FormattedVolume(t, fat32test.DefaultOptions("TESTVOL"))
}

func TestCreateFile__ThenOpenFileRoundTrips(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()

	require.NoError(t, root.CreateFile("HELLO123"))

	f, err := root.OpenFile("HELLO123")
	require.NoError(t, err)
	assert.Equal(t, 0, f.Length())
}

func TestCreateFile__NameIsCaseInsensitiveOnLookup(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()

	require.NoError(t, root.CreateFile("readme"))
	_, err := root.OpenFile("README")
	assert.NoError(t, err)
}

func TestCreateDir__AddsDotAndDotDotEntries(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()

	require.NoError(t, root.CreateDir("SUBDIR"))
	sub, err := root.OpenDir("SUBDIR")
	require.NoError(t, err)

	_, err = sub.OpenDir(".")
	assert.NoError(t, err)
	_, err = sub.OpenDir("..")
	assert.NoError(t, err)
}

func TestCreateDir__DotDotInTopLevelSubdirPointsBackToRoot(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()

	require.NoError(t, root.CreateDir("SUBDIR"))
	sub, err := root.OpenDir("SUBDIR")
	require.NoError(t, err)

	require.NoError(t, sub.CreateFile("INNER"))
	parent, err := sub.OpenDir("..")
	require.NoError(t, err)

	_, err = parent.OpenFile("SUBDIR")
	// ".." from SUBDIR must resolve back to the root directory, which does
	// not itself contain a file named SUBDIR, only the subdirectory entry
	// we created in root above — opening it as a file must fail.
	assert.Error(t, err)
	_, err = parent.OpenDir("SUBDIR")
	assert.NoError(t, err)
}

func TestOpenFile__UnknownNameFails(t *testing.T) {
	v := newMountedVolume(t)
	_, err := v.RootDir().OpenFile("NOPE.TXT")
	assert.Error(t, err)
}

func TestOpenDir__OnARegularFileFails(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()
	require.NoError(t, root.CreateFile("FILE.TXT"))

	_, err := root.OpenDir("FILE.TXT")
	assert.Error(t, err)
}

func TestList__SkipsDotAndDotDot(t *testing.T) {
	v := newMountedVolume(t)
	root := v.RootDir()
	require.NoError(t, root.CreateDir("SUBDIR"))
	sub, err := root.OpenDir("SUBDIR")
	require.NoError(t, err)
	require.NoError(t, sub.CreateFile("A.TXT"))

	entries, err := sub.List()
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"A.TXT"}, names)
}

func TestCreateFile__RejectsIllegalName(t *testing.T) {
	v := newMountedVolume(t)
	err := v.RootDir().CreateFile("bad:name.txt")
	assert.Error(t, err)
}
