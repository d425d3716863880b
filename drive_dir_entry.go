package drivestorage

import (
	"io/fs"
)

// DriveDirEntry implements fs.DirEntry for a listed Entry.
type DriveDirEntry struct {
	name  string
	entry Entry
}

// Verify interface implementation at compile time.
var _ fs.DirEntry = (*DriveDirEntry)(nil)

func newDirEntry(e Entry) *DriveDirEntry {
	return &DriveDirEntry{name: Segment{Name: e.Name, ID: e.ID}.String(), entry: e}
}

// Name returns the encoded segment of the entry.
func (e *DriveDirEntry) Name() string {
	return e.name
}

// IsDir reports whether the entry is a directory.
func (e *DriveDirEntry) IsDir() bool {
	return e.entry.IsFolder
}

// Type returns the file mode bits.
func (e *DriveDirEntry) Type() fs.FileMode {
	if e.IsDir() {
		return fs.ModeDir
	}
	return 0
}

// Info returns the file info.
func (e *DriveDirEntry) Info() (fs.FileInfo, error) {
	return &DriveFileInfo{name: e.name, entry: e.entry}, nil
}
