package drivestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// FS is a read-only fs.FS view of one account of a Storage.
// Names are account-local encoded paths such as "Docs%5C1a2b/notes.txt%5C3c4d", and "." is the root folder.
type FS struct {
	ctx     context.Context
	storage *Storage
	account string
}

// Verify interface implementations at compile time.
var (
	_ fs.FS         = (*FS)(nil)
	_ fs.StatFS     = (*FS)(nil)
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// FS returns a view of account whose remote calls use ctx.
func (s *Storage) FS(ctx context.Context, account string) *FS {
	return &FS{ctx: ctx, storage: s, account: account}
}

// Open opens the file or folder with the given name. Folders are listed and files are downloaded on open.
func (fsys *FS) Open(name string) (fs.File, error) {
	info, err := fsys.stat("open", name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		entries, err := fsys.readDir("open", name)
		if err != nil {
			return nil, err
		}
		return &DriveDir{info: info, entries: entries}, nil
	}
	data, err := fsys.readFile("open", name)
	if err != nil {
		return nil, err
	}
	return &DriveFile{info: info, content: bytes.NewReader(data)}, nil
}

// Stat returns the info of the named file without downloading it.
func (fsys *FS) Stat(name string) (fs.FileInfo, error) {
	return fsys.stat("stat", name)
}

// ReadDir lists the named folder sorted by name.
func (fsys *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fsys.readDir("readdir", name)
}

// ReadFile downloads the named file.
func (fsys *FS) ReadFile(name string) ([]byte, error) {
	return fsys.readFile("readfile", name)
}

func (fsys *FS) stat(op, name string) (*DriveFileInfo, error) {
	path, err := fsys.path(op, name)
	if err != nil {
		return nil, err
	}
	entry, err := fsys.storage.Stat(fsys.ctx, path)
	if err != nil {
		return nil, newFSError(op, name, err)
	}
	base := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		base = name[i+1:]
	}
	return &DriveFileInfo{name: base, entry: entry}, nil
}

func (fsys *FS) readDir(op, name string) ([]fs.DirEntry, error) {
	path, err := fsys.path(op, name)
	if err != nil {
		return nil, err
	}
	listed, err := fsys.storage.List(fsys.ctx, path)
	if err != nil {
		return nil, newFSError(op, name, err)
	}
	entries := make([]fs.DirEntry, 0, len(listed))
	for _, e := range listed {
		entries = append(entries, newDirEntry(e))
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

func (fsys *FS) readFile(op, name string) ([]byte, error) {
	path, err := fsys.path(op, name)
	if err != nil {
		return nil, err
	}
	data, err := fsys.storage.Read(fsys.ctx, path)
	if err != nil {
		return nil, newFSError(op, name, err)
	}
	return data, nil
}

func (fsys *FS) path(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return RootPath(fsys.account), nil
	}
	return RootPath(fsys.account) + name, nil
}

func newFSError(op, name string, err error) error {
	switch {
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrUninitializedAccount):
		err = fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	case errors.Is(err, ErrInvalidPath):
		err = fmt.Errorf("%w: %w", fs.ErrInvalid, err)
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}
