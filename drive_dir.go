package drivestorage

import (
	"io"
	"io/fs"
	"sync"
)

// DriveDir is an open folder of an FS. Its entries are listed once when the folder is opened.
type DriveDir struct {
	info    *DriveFileInfo
	entries []fs.DirEntry

	mu   sync.Mutex
	read int
}

var _ fs.ReadDirFile = (*DriveDir)(nil)

func (d *DriveDir) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

func (d *DriveDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: fs.ErrInvalid}
}

func (d *DriveDir) Close() error {
	return nil
}

// ReadDir returns the next n entries, or all remaining ones when n <= 0.
// With n > 0 it reports io.EOF once no entries are left.
func (d *DriveDir) ReadDir(n int) ([]fs.DirEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rest := d.entries[d.read:]
	if n > 0 {
		if len(rest) == 0 {
			return nil, io.EOF
		}
		rest = rest[:min(n, len(rest))]
	}
	d.read += len(rest)
	return rest, nil
}
