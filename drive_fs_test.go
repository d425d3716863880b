package drivestorage_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/Jumpaku/go-drivestorage"
	"github.com/Jumpaku/go-drivestorage/drivetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) (*drivestorage.FS, *drivetest.Fake) {
	t.Helper()
	fake := drivetest.New(account)
	docs := fake.AddFolder(drivetest.RootID, "Docs")
	fake.AddFile(docs, "notes.txt", []byte("hello"))
	fake.AddFile(drivetest.RootID, "a/b.txt", nil)
	s, _ := newStorage(t, fake)
	return s.FS(context.Background(), account), fake
}

func TestFS_WalkDir(t *testing.T) {
	fsys, _ := newTestFS(t)

	var got []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		got = append(got, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		".",
		"Docs%5CF1",
		"Docs%5CF1/notes.txt%5CF2",
		"a%2fb.txt%5CF3",
	}, got)
}

func TestFS_ReadFile(t *testing.T) {
	fsys, _ := newTestFS(t)

	data, err := fs.ReadFile(fsys, "Docs%5CF1/notes.txt%5CF2")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = fs.ReadFile(fsys, "a%2fb.txt%5CF3")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFS_Open(t *testing.T) {
	fsys, _ := newTestFS(t)

	f, err := fsys.Open("Docs%5CF1")
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "Docs%5CF1", info.Name())

	dir, ok := f.(fs.ReadDirFile)
	require.True(t, ok)
	entries, err := dir.ReadDir(-1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt%5CF2", entries[0].Name())

	root, err := fs.Stat(fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, ".", root.Name())
	assert.True(t, root.IsDir())
}

func TestFS_Errors(t *testing.T) {
	fsys, fake := newTestFS(t)

	_, err := fs.Stat(fsys, "Docs%5CF1/ghost%5CX1")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, drivestorage.ErrFileNotFound)

	_, err = fs.Stat(fsys, "/Docs%5CF1")
	assert.ErrorIs(t, err, fs.ErrInvalid)

	_, err = fs.ReadFile(fsys, "Docs")
	assert.ErrorIs(t, err, fs.ErrInvalid)

	_, err = drivestorage.New().FS(context.Background(), account).Open(".")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	_, err = fs.ReadDir(fsys, "gone%5CX9")
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "readdir", pathErr.Op)
	assert.Equal(t, "gone%5CX9", pathErr.Path)
	assert.Equal(t, 0, fake.Calls().ParentLists, "unresolved folders are not listed")
}
