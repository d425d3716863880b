package drivestorage

import (
	"fmt"
	"sort"
	"sync"
)

// Account bundles the client of one account with its folder cache and root folder id.
// The folder cache and the root id are filled lazily and may be missing after a failed initialization.
type Account struct {
	name   string
	client Client

	// mu guards folders and rootID, and is held for the whole of an operation on the account.
	mu      sync.Mutex
	folders *FolderCache
	rootID  string
}

func (a *Account) Name() string {
	return a.name
}

// Registry holds the accounts known to a Storage, keyed by account name.
type Registry struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func NewRegistry() *Registry {
	return &Registry{accounts: map[string]*Account{}}
}

// Register adds an account with the given client unless the account is already known.
// It returns the registered account and whether it was added by this call.
func (r *Registry) Register(name string, client Client) (account *Account, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[name]; ok {
		return a, false
	}
	a := &Account{name: name, client: client}
	r.accounts[name] = a
	return a, true
}

// Lookup returns the account with the given name, failing with ErrUninitializedAccount if it was never registered.
func (r *Registry) Lookup(name string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[name]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", name, ErrUninitializedAccount)
	}
	return a, nil
}

// Forget removes the account with the given name.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, name)
}

// Clear removes every account.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.accounts)
}

// Accounts returns the sorted names of the registered accounts.
func (r *Registry) Accounts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.accounts))
	for name := range r.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
