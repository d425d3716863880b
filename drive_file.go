package drivestorage

import (
	"bytes"
	"io/fs"
)

// DriveFile implements fs.File for a file whose content has been downloaded.
type DriveFile struct {
	info    *DriveFileInfo
	content *bytes.Reader
}

// Verify interface implementation at compile time.
var _ fs.File = (*DriveFile)(nil)

// Stat returns the file info.
func (f *DriveFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

// Read reads from the file.
func (f *DriveFile) Read(b []byte) (int, error) {
	return f.content.Read(b)
}

// Close closes the file.
func (f *DriveFile) Close() error {
	return nil
}
