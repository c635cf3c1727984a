package ferrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/embeddedfs/fat32/ferrors"
)

func TestWrapIo__NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, ferrors.WrapIo("op", nil))
}

func TestWrapIo__UnwrapsToOriginalError(t *testing.T) {
	cause := errors.New("disk on fire")
	wrapped := ferrors.WrapIo("bpb.Parse", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestMountError__Kinds(t *testing.T) {
	err := ferrors.NewMountError(ferrors.NotFat32, `fs_type = "NTFS    "`)
	assert.Contains(t, err.Error(), "not a FAT32 volume")
	assert.Contains(t, err.Error(), "NTFS")
}

func TestDirError__NotFound(t *testing.T) {
	err := ferrors.NewDirError(ferrors.NotFound, "missing.txt")
	assert.Contains(t, err.Error(), "missing.txt")
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestFatError__NoSpace(t *testing.T) {
	err := ferrors.NewFatError(ferrors.NoSpace)
	assert.Contains(t, err.Error(), "no space left on device")
}
