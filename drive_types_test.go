package drivestorage

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"testing"
	"time"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// TestDriveFileInfo tests the DriveFileInfo implementation.
func TestDriveFileInfo(t *testing.T) {
	modTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	fi := &DriveFileInfo{
		name:  "test.txt%5CF1",
		entry: Entry{Name: "test.txt", ID: "F1", Size: 1024, ModTime: modTime, CanRead: true},
	}

	if fi.Name() != "test.txt%5CF1" {
		t.Errorf("Name() = %q, want %q", fi.Name(), "test.txt%5CF1")
	}

	if fi.Size() != 1024 {
		t.Errorf("Size() = %d, want %d", fi.Size(), 1024)
	}

	if fi.Mode() != 0444 {
		t.Errorf("Mode() = %v, want %v", fi.Mode(), fs.FileMode(0444))
	}

	if !fi.ModTime().Equal(modTime) {
		t.Errorf("ModTime() = %v, want %v", fi.ModTime(), modTime)
	}

	if fi.IsDir() {
		t.Error("IsDir() = true, want false")
	}

	if e, ok := fi.Sys().(Entry); !ok || e.ID != "F1" {
		t.Errorf("Sys() = %v, want the Entry of F1", fi.Sys())
	}
}

// TestDriveFileInfoDir tests the DriveFileInfo implementation for writable folders.
func TestDriveFileInfoDir(t *testing.T) {
	fi := &DriveFileInfo{
		name:  "testdir%5CF2",
		entry: Entry{Name: "testdir", ID: "F2", IsFolder: true, CanRead: true, CanWrite: true},
	}

	if fi.Size() != 0 {
		t.Errorf("Size() = %d, want %d", fi.Size(), 0)
	}

	expectedMode := fs.ModeDir | 0755
	if fi.Mode() != expectedMode {
		t.Errorf("Mode() = %v, want %v", fi.Mode(), expectedMode)
	}

	if !fi.IsDir() {
		t.Error("IsDir() = false, want true")
	}
}

// TestDriveFileRead tests the DriveFile Read implementation.
func TestDriveFileRead(t *testing.T) {
	content := []byte("Hello, World!")
	f := &DriveFile{
		info:    &DriveFileInfo{name: "hello.txt%5CF1", entry: Entry{Name: "hello.txt", Size: int64(len(content))}},
		content: bytes.NewReader(content),
	}

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read() content = %q, want %q", string(got), string(content))
	}

	fi, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if fi.Size() != int64(len(content)) {
		t.Errorf("Stat().Size() = %d, want %d", fi.Size(), len(content))
	}

	if err := f.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// TestDriveDirRead tests that folders cannot be read as files.
func TestDriveDirRead(t *testing.T) {
	d := &DriveDir{info: &DriveFileInfo{name: ".", entry: Entry{IsFolder: true}}}

	_, err := d.Read(make([]byte, 8))
	if !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("Read() error = %v, want %v", err, fs.ErrInvalid)
	}

	fi, err := d.Stat()
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if fi.Name() != "." || !fi.IsDir() {
		t.Errorf("Stat() = (%q, dir=%v), want (%q, dir=true)", fi.Name(), fi.IsDir(), ".")
	}
}

func testDirEntries() []fs.DirEntry {
	return []fs.DirEntry{
		newDirEntry(Entry{Name: "file1.txt", ID: "F1", Mime: "text/plain"}),
		newDirEntry(Entry{Name: "file2.txt", ID: "F2", Mime: "text/plain"}),
		newDirEntry(Entry{Name: "subdir", ID: "F3", Mime: mimeTypeGoogleAppFolder, IsFolder: true}),
	}
}

// TestDriveDirReadDir tests the DriveDir ReadDir implementation.
func TestDriveDirReadDir(t *testing.T) {
	d := &DriveDir{info: &DriveFileInfo{name: "."}, entries: testDirEntries()}

	result, err := d.ReadDir(-1)
	if err != nil {
		t.Fatalf("ReadDir(-1) error = %v", err)
	}
	if len(result) != 3 {
		t.Errorf("ReadDir(-1) returned %d entries, want 3", len(result))
	}

	result, err = d.ReadDir(-1)
	if err != nil || len(result) != 0 {
		t.Errorf("ReadDir(-1) = (%d entries, %v), want (0 entries, nil)", len(result), err)
	}
}

// TestDriveDirReadDirN tests the DriveDir ReadDir implementation with n > 0.
func TestDriveDirReadDirN(t *testing.T) {
	d := &DriveDir{info: &DriveFileInfo{name: "."}, entries: testDirEntries()}

	result, err := d.ReadDir(2)
	if err != nil {
		t.Fatalf("ReadDir(2) error = %v", err)
	}
	if len(result) != 2 {
		t.Errorf("ReadDir(2) returned %d entries, want 2", len(result))
	}

	result, err = d.ReadDir(2)
	if err != nil {
		t.Errorf("ReadDir(2) error = %v, want nil", err)
	}
	if len(result) != 1 {
		t.Errorf("ReadDir(2) returned %d entries, want 1", len(result))
	}

	result, err = d.ReadDir(2)
	if err != io.EOF || len(result) != 0 {
		t.Errorf("ReadDir(2) = (%d entries, %v), want (0 entries, io.EOF)", len(result), err)
	}
}

// TestDriveDirEntry tests the DriveDirEntry implementation.
func TestDriveDirEntry(t *testing.T) {
	file := newDirEntry(Entry{Name: "a/b.txt", ID: "F1", Size: 512})
	if file.Name() != "a%2fb.txt%5CF1" {
		t.Errorf("Name() = %q, want %q", file.Name(), "a%2fb.txt%5CF1")
	}
	if file.IsDir() || file.Type() != 0 {
		t.Errorf("IsDir(), Type() = %v, %v, want false, 0 for file", file.IsDir(), file.Type())
	}

	fi, err := file.Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if fi.Name() != file.Name() {
		t.Errorf("Info().Name() = %q, want %q", fi.Name(), file.Name())
	}
	if fi.Size() != 512 {
		t.Errorf("Info().Size() = %d, want %d", fi.Size(), 512)
	}

	dir := newDirEntry(Entry{Name: "dir", ID: "F2", IsFolder: true})
	if !dir.IsDir() || dir.Type() != fs.ModeDir {
		t.Errorf("IsDir(), Type() = %v, %v, want true, %v for folder", dir.IsDir(), dir.Type(), fs.ModeDir)
	}
}

// TestEscapeQuery tests the escapeQuery function.
func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"with'quote", "with\\'quote"},
		{"with\\backslash", "with\\\\backslash"},
		{"mixed'and\\special", "mixed\\'and\\\\special"},
	}

	for _, tt := range tests {
		result := escapeQuery(tt.input)
		if result != tt.expected {
			t.Errorf("escapeQuery(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		query    Query
		expected string
	}{
		{Query{}, "trashed = false"},
		{Query{FoldersOnly: true}, "trashed = false and mimeType = 'application/vnd.google-apps.folder'"},
		{Query{ParentID: "F'1"}, "trashed = false and 'F\\'1' in parents"},
	}

	for _, tt := range tests {
		result := buildQuery(tt.query)
		if result != tt.expected {
			t.Errorf("buildQuery(%+v) = %q, want %q", tt.query, result, tt.expected)
		}
	}
}

func TestNewObject(t *testing.T) {
	o := newObject(&drive.File{
		Id:             "F1",
		Name:           "notes.txt",
		MimeType:       "text/plain",
		Parents:        []string{"R"},
		Size:           5,
		ModifiedTime:   "2024-01-15T10:30:00Z",
		Md5Checksum:    "5d41402abc4b2a76b9719d911017c592",
		WebContentLink: "https://drive.google.com/uc?id=F1",
		Capabilities:   &drive.FileCapabilities{CanEdit: false},
	})

	if o.ID != "F1" || o.Name != "notes.txt" || o.IsFolder {
		t.Errorf("newObject() = %+v, want file F1 named notes.txt", o)
	}
	if !o.ModTime.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("ModTime = %v, want 2024-01-15T10:30:00Z", o.ModTime)
	}
	if o.CanEdit {
		t.Error("CanEdit = true, want false")
	}
	if o.CanDownload {
		t.Error("CanDownload = true, want false")
	}
	if o.ContentLocation == "" {
		t.Error("ContentLocation is empty, want the download link")
	}

	folder := newObject(&drive.File{Id: "F2", MimeType: mimeTypeGoogleAppFolder})
	if !folder.IsFolder || !folder.CanEdit || !folder.CanDownload {
		t.Errorf("newObject() = %+v, want an editable folder", folder)
	}
	if !folder.ModTime.IsZero() {
		t.Errorf("ModTime = %v, want zero time", folder.ModTime)
	}
}

// TestNewObjectInvalidModTime tests that an unparsable modification time is logged and left zero.
func TestNewObjectInvalidModTime(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logging.Replace(zap.New(core))
	defer restore()

	o := newObject(&drive.File{Id: "F1", Name: "notes.txt", ModifiedTime: "yesterday"})

	if !o.ModTime.IsZero() {
		t.Errorf("ModTime = %v, want zero time", o.ModTime)
	}
	entries := logs.FilterMessage("invalid modification time").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("logged %d warnings, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["modifiedTime"]; got != "yesterday" {
		t.Errorf("modifiedTime = %v, want yesterday", got)
	}
}

func TestRemoteErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind RemoteErrorKind
	}{
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, RemoteNotFound},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, RemoteAuth},
		{"token refresh", &oauth2.RetrieveError{ErrorCode: "invalid_grant"}, RemoteAuth},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError}, RemoteOther},
		{"other", errors.New("connection reset"), RemoteOther},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := remoteErrorKind(tt.err); got != tt.kind {
				t.Errorf("remoteErrorKind(%v) = %v, want %v", tt.err, got, tt.kind)
			}
		})
	}
}
