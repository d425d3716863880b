package drivestorage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"github.com/Jumpaku/go-drivestorage/internal/metrics"
)

// finishInitialization fills the folder cache and the root id if they are still missing.
// Each field is attempted independently so that a partial failure can be completed later.
// The caller must hold a.mu.
func (a *Account) finishInitialization(ctx context.Context) error {
	var errs []error
	if a.folders == nil {
		folders, err := BuildFolderCache(ctx, a.client)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to build folder cache of %q: %w", a.name, err))
		} else {
			a.folders = folders
		}
	}
	if err := a.fetchRootID(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// fetchRootID fills the root id if it is still missing. The caller must hold a.mu.
func (a *Account) fetchRootID(ctx context.Context) error {
	if strings.TrimSpace(a.rootID) != "" {
		return nil
	}
	rootID, err := a.client.RootID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get root folder of %q: %w", a.name, err)
	}
	a.rootID = rootID
	return nil
}

// rebuildFolderCache replaces the folder cache wholesale. The old cache is kept if the rebuild fails.
// The caller must hold a.mu.
func (a *Account) rebuildFolderCache(ctx context.Context) error {
	folders, err := BuildFolderCache(ctx, a.client)
	if err != nil {
		return fmt.Errorf("failed to rebuild folder cache of %q: %w", a.name, err)
	}
	a.folders = folders
	return nil
}

// resolve returns the id that p denotes after verifying every segment against the folder cache.
// The first verification failure rebuilds the cache once and the walk is retried; a second failure is final.
// The caller must hold a.mu.
func (a *Account) resolve(ctx context.Context, p Path) (string, error) {
	if p.IsRoot() {
		// The root needs no folder cache.
		if err := a.fetchRootID(ctx); err != nil {
			return "", err
		}
		return a.rootID, nil
	}
	if err := a.finishInitialization(ctx); err != nil {
		return "", err
	}

	id, err := a.verify(ctx, p)
	var verr *verificationError
	if !errors.As(err, &verr) {
		return id, err
	}

	logging.Debug("path verification failed, rebuilding folder cache",
		logging.String("account", a.name),
		logging.String("path", p.String()),
		logging.Err(err))
	if err := a.rebuildFolderCache(ctx); err != nil {
		return "", err
	}

	id, err = a.verify(ctx, p)
	if errors.As(err, &verr) {
		metrics.RecordResolveFailure(failureLabel(verr.cause))
		logging.Info("path not found after rebuilding folder cache",
			logging.String("account", a.name),
			logging.String("path", p.String()),
			logging.Err(err))
		return "", newNotFoundError(verr.cause, fmt.Sprintf("%s: %s", p.String(), verr.msg), nil)
	}
	return id, err
}

// verify walks p from the root folder. Mismatches are reported as *verificationError.
func (a *Account) verify(ctx context.Context, p Path) (string, error) {
	parentID := a.rootID
	last := len(p.Segments) - 1
	for i, seg := range p.Segments {
		entry, found := a.folders.Lookup(seg.ID)
		if !found && i == last {
			// Files are not cached, so the leaf is looked up on demand.
			var err error
			entry, found, err = a.lookupLeaf(ctx, seg.ID)
			if err != nil {
				return "", err
			}
		}
		if !found {
			return "", &verificationError{
				cause: ErrMissingID,
				msg:   fmt.Sprintf("couldn't find id %s in account %s", seg.ID, a.name),
			}
		}
		if !entry.HasParent(parentID) {
			return "", &verificationError{
				cause: ErrParentMismatch,
				msg:   fmt.Sprintf("couldn't find parent id %s as parent of %s in account %s", parentID, entry.Name, a.name),
			}
		}
		if entry.Name != seg.Name {
			return "", &verificationError{
				cause: ErrNameMismatch,
				msg:   fmt.Sprintf("name of %s changed from %s to %s in account %s", seg.ID, seg.Name, entry.Name, a.name),
			}
		}
		parentID = seg.ID
	}
	return parentID, nil
}

// lookupLeaf fetches a single object and returns a transient entry for it. The entry is not cached.
// Failures other than auth failures count as a miss.
func (a *Account) lookupLeaf(ctx context.Context, id string) (CacheEntry, bool, error) {
	o, err := a.client.Get(ctx, id)
	if err != nil {
		var rerr *RemoteError
		if errors.As(err, &rerr) && rerr.Kind == RemoteAuth {
			return CacheEntry{}, false, err
		}
		logging.Debug("leaf lookup failed", logging.String("id", id), logging.Err(err))
		return CacheEntry{}, false, nil
	}
	if o.Trashed {
		return CacheEntry{}, false, nil
	}
	return newCacheEntry(o), true, nil
}

func failureLabel(cause error) string {
	switch cause {
	case ErrMissingID:
		return "missing_id"
	case ErrParentMismatch:
		return "parent_mismatch"
	case ErrNameMismatch:
		return "name_mismatch"
	}
	return "other"
}
