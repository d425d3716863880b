// Package drivestoragemust wraps the drivestorage package with panic-based error handling.
//
// It provides the same path-based operations as the root-level drivestorage
// package, but instead of returning errors, all exported methods panic on failure.
package drivestoragemust

import (
	"context"

	"github.com/Jumpaku/go-drivestorage"
)

// Storage exposes the accounts of a drivestorage.Storage through gdrive:// paths.
//
// All methods of Storage panic on error instead of returning an error value.
type Storage struct {
	storage *drivestorage.Storage
}

// New creates a Storage with an empty account registry.
func New() *Storage {
	return Wrap(drivestorage.New())
}

// Wrap returns a Storage operating on s.
func Wrap(s *drivestorage.Storage) *Storage {
	return &Storage{storage: s}
}

// Unwrap returns the underlying error-returning Storage.
func (s *Storage) Unwrap() *drivestorage.Storage {
	return s.storage
}

// Authorize registers client for the account named by accountOrPath and returns the root path of the account.
//
// It panics if the account cannot be initialized.
func (s *Storage) Authorize(ctx context.Context, accountOrPath string, client drivestorage.Client) (rootPath string) {
	return must1(s.storage.Authorize(ctx, accountOrPath, client))
}

// Stat returns the entry of the object at path.
//
// It panics if path cannot be resolved.
func (s *Storage) Stat(ctx context.Context, path string) (entry drivestorage.Entry) {
	return must1(s.storage.Stat(ctx, path))
}

// Read returns the content of the file at path.
//
// It panics if path cannot be resolved or the content cannot be downloaded.
func (s *Storage) Read(ctx context.Context, path string) (data []byte) {
	return must1(s.storage.Read(ctx, path))
}

// Write replaces the content of the existing file at path.
//
// It panics if path cannot be resolved or the upload fails.
func (s *Storage) Write(ctx context.Context, path string, data []byte) {
	must0(s.storage.Write(ctx, path, data))
}

// CreateFolder creates a folder named name in the folder at parentPath and returns its path.
func (s *Storage) CreateFolder(ctx context.Context, parentPath, name string) (path string) {
	return must1(s.storage.CreateFolder(ctx, parentPath, name))
}

// CreateFile creates an empty file named name in the folder at parentPath and returns its path.
func (s *Storage) CreateFile(ctx context.Context, parentPath, name string) (path string) {
	return must1(s.storage.CreateFile(ctx, parentPath, name))
}

// Delete deletes the object at path.
func (s *Storage) Delete(ctx context.Context, path string) {
	must0(s.storage.Delete(ctx, path))
}

// List returns the entries of the folder at parentPath.
//
// It panics if parentPath cannot be resolved or the folder is trashed.
func (s *Storage) List(ctx context.Context, parentPath string) (entries []drivestorage.Entry) {
	return must1(s.storage.List(ctx, parentPath))
}

// CurrentVersion returns the content checksum of the file at path.
func (s *Storage) CurrentVersion(ctx context.Context, path string) (version string) {
	return must1(s.storage.CurrentVersion(ctx, path))
}

// HasChanged reports whether the content checksum of the file at path differs from previousVersion.
func (s *Storage) HasChanged(ctx context.Context, path, previousVersion string) bool {
	return must1(s.storage.HasChanged(ctx, path, previousVersion))
}

// Filename returns the decoded name of the object that path denotes.
//
// It panics if path is malformed or denotes an account root.
func (s *Storage) Filename(path string) (name string) {
	return must1(s.storage.Filename(path))
}
