package drivestorage

import (
	"context"
	"fmt"
	"time"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"github.com/Jumpaku/go-drivestorage/internal/metrics"
)

// CacheEntry is the cached metadata of a folder. A folder may have several parents.
type CacheEntry struct {
	ID        string
	Name      string
	ParentIDs map[string]struct{}
}

// NewCacheEntry returns a CacheEntry with the given parents.
func NewCacheEntry(id, name string, parentIDs ...string) CacheEntry {
	e := CacheEntry{ID: id, Name: name, ParentIDs: make(map[string]struct{}, len(parentIDs))}
	for _, p := range parentIDs {
		e.ParentIDs[p] = struct{}{}
	}
	return e
}

// HasParent reports whether parentID is one of the parents of the entry.
func (e CacheEntry) HasParent(parentID string) bool {
	_, ok := e.ParentIDs[parentID]
	return ok
}

// FolderCache maps folder ids to their cached metadata.
// It is not safe for concurrent use; an Account serializes access to it.
type FolderCache struct {
	entries map[string]CacheEntry
}

// NewFolderCache returns a cache holding the given entries.
func NewFolderCache(entries ...CacheEntry) *FolderCache {
	c := &FolderCache{entries: make(map[string]CacheEntry, len(entries))}
	for _, e := range entries {
		c.Insert(e)
	}
	return c
}

// BuildFolderCache lists every non-trashed folder of the account.
// On failure no cache is returned, so a previous cache is never replaced by a partial one.
func BuildFolderCache(ctx context.Context, client Client) (*FolderCache, error) {
	start := time.Now()
	cache := NewFolderCache()
	pageToken := ""
	for {
		folders, next, err := client.List(ctx, Query{FoldersOnly: true}, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list folders: %w", err)
		}
		for _, f := range folders {
			cache.Insert(newCacheEntry(f))
		}
		if next == "" {
			break
		}
		pageToken = next
	}
	metrics.RecordFolderCacheRebuild(time.Since(start), cache.Len())
	logging.Debug("built folder cache",
		logging.Int("folders", cache.Len()),
		logging.Duration("duration", time.Since(start)))
	return cache, nil
}

// Lookup returns the entry of the folder with the given id.
func (c *FolderCache) Lookup(id string) (CacheEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Insert adds or replaces the entry with the same id.
func (c *FolderCache) Insert(e CacheEntry) {
	c.entries[e.ID] = e
}

func (c *FolderCache) Remove(id string) {
	delete(c.entries, id)
}

func (c *FolderCache) Len() int {
	return len(c.entries)
}

func newCacheEntry(o *Object) CacheEntry {
	return NewCacheEntry(o.ID, o.Name, o.ParentIDs...)
}
