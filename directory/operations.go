package directory

import (
	"github.com/embeddedfs/fat32/dirent"
	"github.com/embeddedfs/fat32/ferrors"
	"github.com/embeddedfs/fat32/file"
)

// OpenDir resolves name to a subdirectory of dir.
func (dir *Directory) OpenDir(name string) (*Directory, error) {
	r, err := resolve(dir, name)
	if err != nil {
		return nil, err
	}
	if !r.entry.IsDirectory() {
		return nil, ferrors.NewDirError(ferrors.NotFoundDir, name)
	}
	cluster := r.entry.FirstCluster()
	if cluster == 0 {
		// FAT32 convention: a ".." entry in a top-level subdirectory
		// stores 0 rather than the root directory's real cluster number.
		cluster = dir.bpb.RootCluster
	}
	return New(dir.device, dir.bpb, dir.fat, cluster), nil
}

// OpenFile resolves name to a regular file of dir.
func (dir *Directory) OpenFile(name string) (*file.File, error) {
	r, err := resolve(dir, name)
	if err != nil {
		return nil, err
	}
	if r.entry.IsDirectory() {
		return nil, ferrors.NewDirError(ferrors.NotFoundFile, name)
	}
	return file.New(dir.device, dir.bpb, dir.fat, r.entry.FirstCluster(), int(r.entry.FileSize)), nil
}

// Entry is a single resolved directory listing row, returned by List.
type Entry struct {
	Name      string
	IsDir     bool
	SizeBytes int64
}

// List enumerates every live (non-deleted, non-LFN, non-volume-label)
// short entry in dir, skipping "." and ".." the way the teacher's
// ObjectHandle.ListDir does.
func (dir *Directory) List() ([]Entry, error) {
	cursor, err := newSlotCursor(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i := 0; ; i++ {
		raw, _, ok, err := cursor.slot(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch raw[0x00] {
		case dirent.EntryEndOfDirectory:
			return entries, nil
		case dirent.EntryDeleted:
			continue
		}
		if raw[0x0B] == 0x0F {
			continue
		}
		e := dirent.DecodeShortEntry(raw)
		if e.Attributes&dirent.AttrVolumeID != 0 {
			continue
		}
		name := dirent.DecodeDisplayName(e)
		if name == "." || name == ".." {
			continue
		}
		entries = append(entries, Entry{
			Name:      name,
			IsDir:     e.IsDirectory(),
			SizeBytes: int64(e.FileSize),
		})
	}
	return entries, nil
}
