package drivestorage

import (
	"io/fs"
	"time"
)

// DriveFileInfo implements fs.FileInfo for an Entry.
type DriveFileInfo struct {
	name  string
	entry Entry
}

// Verify interface implementation at compile time.
var _ fs.FileInfo = (*DriveFileInfo)(nil)

// Name returns the encoded segment of the entry, which is its base name within an FS.
func (fi *DriveFileInfo) Name() string {
	return fi.name
}

// Size returns the size of the file in bytes.
func (fi *DriveFileInfo) Size() int64 {
	return fi.entry.Size
}

// Mode returns the file mode bits.
func (fi *DriveFileInfo) Mode() fs.FileMode {
	var mode fs.FileMode = 0444
	if fi.entry.CanWrite {
		mode |= 0200
	}
	if fi.IsDir() {
		return fs.ModeDir | mode | 0111
	}
	return mode
}

// ModTime returns the modification time.
func (fi *DriveFileInfo) ModTime() time.Time {
	return fi.entry.ModTime
}

// IsDir reports whether the file is a directory.
func (fi *DriveFileInfo) IsDir() bool {
	return fi.entry.IsFolder
}

// Sys returns the underlying Entry.
func (fi *DriveFileInfo) Sys() any {
	return fi.entry
}
