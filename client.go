package drivestorage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Client is an authenticated handle to the remote store for a single account.
// Implementations report failures as *RemoteError so that they can be classified.
type Client interface {
	// Get returns the metadata of the object with the given id, trashed or not.
	Get(ctx context.Context, id string) (*Object, error)
	// List returns one page of non-trashed objects matching q. An empty nextPageToken ends the listing.
	List(ctx context.Context, q Query, pageToken string) (objects []*Object, nextPageToken string, err error)
	// Insert creates an object under parentID. content may be nil.
	Insert(ctx context.Context, object *Object, parentID string, content io.Reader) (*Object, error)
	// Update replaces the metadata and, if content is not nil, the content of the object with the given id.
	Update(ctx context.Context, id string, object *Object, content io.Reader) (*Object, error)
	Delete(ctx context.Context, id string) error
	// RootID returns the id of the account's root folder.
	RootID(ctx context.Context) (string, error)
	// FetchContent downloads the object content. Objects without a content location yield an empty reader.
	FetchContent(ctx context.Context, object *Object) (io.ReadCloser, error)
}

// Query selects non-trashed objects. ParentID restricts the result to direct children, FoldersOnly to folders.
type Query struct {
	ParentID    string
	FoldersOnly bool
}

// Object is the remote metadata consumed by this package.
type Object struct {
	ID              string
	Name            string
	ParentIDs       []string
	IsFolder        bool
	MimeType        string
	Size            int64
	ModTime         time.Time
	MD5Checksum     string
	ContentLocation string
	Trashed         bool
	CanEdit         bool
	CanDownload     bool
}

type RemoteErrorKind int

const (
	RemoteOther RemoteErrorKind = iota
	RemoteNotFound
	RemoteAuth
)

func (k RemoteErrorKind) String() string {
	switch k {
	case RemoteNotFound:
		return "not_found"
	case RemoteAuth:
		return "auth"
	default:
		return "other"
	}
}

// RemoteError is the failure reported by a Client.
// Account is empty when the failing account cannot be identified.
type RemoteError struct {
	Kind    RemoteErrorKind
	Account string
	Op      string
	Err     error
}

var _ error = (*RemoteError)(nil)

func (err *RemoteError) Error() string {
	if err == nil {
		return "(*RemoteError)(nil)"
	}
	msg := fmt.Sprintf("%s failed (%s)", err.Op, err.Kind)
	if err.Account != "" {
		msg += " for account " + err.Account
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *RemoteError) Unwrap() error {
	return err.Err
}
