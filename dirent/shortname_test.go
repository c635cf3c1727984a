package dirent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedfs/fat32/dirent"
)

func TestEncodeShortName8__RoundTripsThroughDecodeDisplayName(t *testing.T) {
	raw, ok := dirent.EncodeShortName8("readme")
	require.True(t, ok)

	e := dirent.ShortEntry{}
	copy(e.Name[:], raw[:8])
	copy(e.Extension[:], raw[8:11])
	assert.Equal(t, "README", dirent.DecodeDisplayName(e))
}

func TestEncodeShortName8__LowercaseIsUppercased(t *testing.T) {
	raw, ok := dirent.EncodeShortName8("abcdefgh")
	require.True(t, ok)
	assert.Equal(t, []byte("ABCDEFGH"), raw[:8])
}

func TestEncodeShortName8__RejectsNameLongerThan8Bytes(t *testing.T) {
	_, ok := dirent.EncodeShortName8("toolongname")
	assert.False(t, ok)
}

func TestEncodeShortName8__RejectsEmptyName(t *testing.T) {
	_, ok := dirent.EncodeShortName8("")
	assert.False(t, ok)
}

func TestEncodeShortName8__RejectsIllegalChar(t *testing.T) {
	_, ok := dirent.EncodeShortName8("a/b")
	assert.False(t, ok)
}

func TestContainsIllegalChar(t *testing.T) {
	assert.True(t, dirent.ContainsIllegalChar("a:b"))
	assert.False(t, dirent.ContainsIllegalChar("ab"))
}

func TestIsShortNameCandidate(t *testing.T) {
	assert.True(t, dirent.IsShortNameCandidate("README"))
	assert.False(t, dirent.IsShortNameCandidate("a really long name"))
	assert.False(t, dirent.IsShortNameCandidate("has space"))
}

func TestDecodeDisplayName__NoExtension(t *testing.T) {
	e := dirent.ShortEntry{}
	copy(e.Name[:], "FOO     ")
	copy(e.Extension[:], "   ")
	assert.Equal(t, "FOO", dirent.DecodeDisplayName(e))
}
