package drivestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Storage exposes the accounts of a Registry through gdrive:// paths.
// Operations on the same account are serialized; operations on different accounts may run concurrently.
type Storage struct {
	accounts  *Registry
	authGroup singleflight.Group
}

// New creates a Storage with an empty account registry.
func New() *Storage {
	return &Storage{accounts: NewRegistry()}
}

// Accounts returns the registry of the accounts known to s.
func (s *Storage) Accounts() *Registry {
	return s.accounts
}

// Authorize registers client for the account named by accountOrPath, which is either an account name or a path of that account, and completes its initialization.
// An already registered account keeps its client. If the remote requires re-authorization, the account is forgotten and ErrAuthRecoverable is returned.
// It returns the root path of the account.
func (s *Storage) Authorize(ctx context.Context, accountOrPath string, client Client) (rootPath string, err error) {
	account := accountOrPath
	if p, err := ParsePath(accountOrPath); err == nil {
		account = p.Account
	}
	_, err, _ = s.authGroup.Do(account, func() (any, error) {
		a, added := s.accounts.Register(account, client)
		if added {
			logging.Info("added account", logging.String("account", account))
		}
		a.mu.Lock()
		err := a.finishInitialization(ctx)
		a.mu.Unlock()
		if err != nil {
			err = s.accounts.classify(err)
			if errors.Is(err, ErrAuthRecoverable) {
				s.accounts.Forget(account)
			}
			return nil, fmt.Errorf("failed to initialize account %q: %w", account, err)
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	return RootPath(account), nil
}

// RootPath returns the path of the root folder of account.
func (s *Storage) RootPath(account string) string {
	return RootPath(account)
}

// DisplayName returns a human-readable rendering of path without touching the network.
func (s *Storage) DisplayName(path string) string {
	return DisplayName(path)
}

// Filename returns the decoded name of the object that path denotes.
func (s *Storage) Filename(path string) (string, error) {
	return Filename(path)
}

// Stat returns the entry of the object at path.
func (s *Storage) Stat(ctx context.Context, path string) (entry Entry, err error) {
	err = s.withPath(ctx, path, func(a *Account, p Path, id string) error {
		o, err := a.client.Get(ctx, id)
		if err != nil {
			return err
		}
		entry = newEntry(o, p)
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return entry, nil
}

// Read returns the content of the file at path. Files without content are read as empty.
func (s *Storage) Read(ctx context.Context, path string) (data []byte, err error) {
	err = s.withPath(ctx, path, func(a *Account, p Path, id string) error {
		o, err := a.client.Get(ctx, id)
		if err != nil {
			return err
		}
		data, err = readContent(ctx, a.client, o)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}

// Write replaces the content of the existing file at path.
func (s *Storage) Write(ctx context.Context, path string, data []byte) error {
	err := s.withPath(ctx, path, func(a *Account, p Path, id string) error {
		_, err := a.client.Update(ctx, id, &Object{}, bytes.NewReader(data))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// CreateFolder creates a folder named name in the folder at parentPath and returns the path of the new folder.
func (s *Storage) CreateFolder(ctx context.Context, parentPath, name string) (path string, err error) {
	err = s.withPath(ctx, parentPath, func(a *Account, p Path, parentID string) error {
		o, err := a.client.Insert(ctx, &Object{Name: name, IsFolder: true}, parentID, nil)
		if err != nil {
			return err
		}
		// The new folder is likely to be accessed soon, so it is cached right away instead of waiting for a rebuild.
		if a.folders != nil {
			a.folders.Insert(NewCacheEntry(o.ID, o.Name, parentID))
		}
		logging.Debug("created folder",
			logging.String("account", a.name),
			logging.String("name", o.Name),
			logging.String("id", o.ID))
		path = p.Child(o.Name, o.ID).String()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q in %q: %w", name, parentPath, err)
	}
	return path, nil
}

// CreateFile creates an empty file named name in the folder at parentPath and returns the path of the new file.
func (s *Storage) CreateFile(ctx context.Context, parentPath, name string) (path string, err error) {
	err = s.withPath(ctx, parentPath, func(a *Account, p Path, parentID string) error {
		o, err := a.client.Insert(ctx, &Object{Name: name}, parentID, nil)
		if err != nil {
			return err
		}
		path = p.Child(o.Name, o.ID).String()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create file %q in %q: %w", name, parentPath, err)
	}
	return path, nil
}

// Delete deletes the object at path.
func (s *Storage) Delete(ctx context.Context, path string) error {
	err := s.withPath(ctx, path, func(a *Account, p Path, id string) error {
		if err := a.client.Delete(ctx, id); err != nil {
			return err
		}
		if a.folders != nil {
			a.folders.Remove(id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}

// List returns the entries of the folder at parentPath in no particular order.
// A trashed folder is reported as ErrFileNotFound.
func (s *Storage) List(ctx context.Context, parentPath string) (entries []Entry, err error) {
	err = s.withPath(ctx, parentPath, func(a *Account, p Path, parentID string) error {
		parent, err := a.client.Get(ctx, parentID)
		if err != nil {
			return err
		}
		if parent.Trashed {
			return newNotFoundError(ErrTrashed, p.String(), nil)
		}
		entries, err = listAll(ctx, a.client, p, parentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", parentPath, err)
	}
	return entries, nil
}

// CurrentVersion returns the content checksum of the file at path, or "" if the remote provides none.
func (s *Storage) CurrentVersion(ctx context.Context, path string) (version string, err error) {
	err = s.withPath(ctx, path, func(a *Account, p Path, id string) error {
		o, err := a.client.Get(ctx, id)
		if err != nil {
			return err
		}
		version = o.MD5Checksum
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get version of %q: %w", path, err)
	}
	return version, nil
}

// HasChanged reports whether the content checksum of the file at path differs from previousVersion.
// It reports false when no checksum is available.
func (s *Storage) HasChanged(ctx context.Context, path string, previousVersion string) (bool, error) {
	current, err := s.CurrentVersion(ctx, path)
	if err != nil {
		return false, err
	}
	if current == "" {
		return false, nil
	}
	return current != previousVersion, nil
}

// withPath parses path, locks its account, resolves the id of the path and calls f with it.
// Errors of the resolution and of f are classified.
func (s *Storage) withPath(ctx context.Context, path string, f func(a *Account, p Path, id string) error) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	a, err := s.accounts.Lookup(p.Account)
	if err != nil {
		return err
	}
	err = func() error {
		a.mu.Lock()
		defer a.mu.Unlock()
		id, err := a.resolve(ctx, p)
		if err != nil {
			return err
		}
		return f(a, p, id)
	}()
	return s.accounts.classify(err)
}

func listAll(ctx context.Context, client Client, parent Path, parentID string) (entries []Entry, err error) {
	seen := map[string]bool{}
	pageToken := ""
	for {
		objects, next, err := client.List(ctx, Query{ParentID: parentID}, pageToken)
		if err != nil {
			return nil, err
		}
		for _, o := range objects {
			if seen[o.ID] {
				continue
			}
			seen[o.ID] = true
			entries = append(entries, newEntry(o, parent.Child(o.Name, o.ID)))
		}
		if next == "" {
			return entries, nil
		}
		pageToken = next
	}
}

func readContent(ctx context.Context, client Client, o *Object) (data []byte, err error) {
	if o.ContentLocation == "" {
		return []byte{}, nil
	}
	r, err := client.FetchContent(ctx, o)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := r.Close()
		if closeErr != nil {
			closeErr = newIOError("failed to close content", closeErr)
		}
		err = errors.Join(err, closeErr)
	}()

	data, err = io.ReadAll(r)
	if err != nil {
		return nil, newIOError("failed to read content", err)
	}
	return data, nil
}
