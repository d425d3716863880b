package drivestorage

// This file is part of the package tests (package drivestorage) and provides
// helpers that allow tests in the external package to access internal
// package constructs.

// NewNotFoundError constructs a not-found error using the package-internal constructor.
func NewNotFoundError(subCause error, msg string, cause error) error {
	return newNotFoundError(subCause, msg, cause)
}

// NewIOError constructs an io-wrapped error using the package-internal constructor.
func NewIOError(msg string, cause error) error {
	return newIOError(msg, cause)
}

// Classify exposes the error classification of a Registry.
func (r *Registry) Classify(err error) error {
	return r.classify(err)
}

// FolderCacheOf returns the folder cache of account, or nil if it is unknown or not built.
func (s *Storage) FolderCacheOf(account string) *FolderCache {
	a, err := s.accounts.Lookup(account)
	if err != nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.folders
}

// RootIDOf returns the root folder id of account, or "" if it is unknown or not fetched.
func (s *Storage) RootIDOf(account string) string {
	a, err := s.accounts.Lookup(account)
	if err != nil {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rootID
}
