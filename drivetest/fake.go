// Package drivetest provides an in-memory drivestorage.Client for tests.
package drivetest

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Jumpaku/go-drivestorage"
)

const (
	// RootID is the id of the root folder of every Fake.
	RootID = "R"

	folderMimeType = "application/vnd.google-apps.folder"
	fileMimeType   = "application/octet-stream"
)

// Calls counts the remote calls made to a Fake.
type Calls struct {
	// FolderScans counts listings of every folder, one per scan however many pages it spans.
	FolderScans int
	// ParentLists counts pages listed by parent id.
	ParentLists int
	Gets        int
	Inserts     int
	Updates     int
	Deletes     int
	Downloads   int
	RootIDs     int
}

// Fake is an in-memory remote store. Ids are assigned sequentially as F1, F2, ... and listings follow creation order.
type Fake struct {
	// Account is attached to the errors the fake reports.
	Account string
	// PageSize is the maximum number of objects per listed page. Zero means unlimited.
	PageSize int
	// Fail is called before every remote call with the operation name and the id involved, if any.
	// A non-nil result is returned as the error of the call. Fail must not call methods of the Fake.
	Fail func(op, id string) error

	mu       sync.Mutex
	nextID   int
	order    []string
	objects  map[string]*drivestorage.Object
	contents map[string][]byte
	calls    Calls
	now      time.Time
}

var _ drivestorage.Client = (*Fake)(nil)

// New returns a Fake holding only the root folder.
func New(account string) *Fake {
	f := &Fake{
		Account:  account,
		objects:  map[string]*drivestorage.Object{},
		contents: map[string][]byte{},
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.objects[RootID] = &drivestorage.Object{ID: RootID, Name: "My Drive", IsFolder: true, MimeType: folderMimeType, CanEdit: true, CanDownload: true, ModTime: f.now}
	return f
}

// Calls returns the number of calls made so far.
func (f *Fake) Calls() Calls {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// AddFolder creates a folder without going through the Client interface and returns its id.
func (f *Fake) AddFolder(parentID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(&drivestorage.Object{Name: name, IsFolder: true, MimeType: folderMimeType}, parentID, nil)
}

// AddFile creates a file without going through the Client interface and returns its id. content may be nil.
func (f *Fake) AddFile(parentID, name string, content []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(&drivestorage.Object{Name: name, MimeType: fileMimeType}, parentID, content)
}

// Rename changes the name of an object behind the back of any cache.
func (f *Fake) Rename(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[id].Name = name
}

// Move replaces the parents of an object.
func (f *Fake) Move(id string, parentIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[id].ParentIDs = slices.Clone(parentIDs)
}

// Trash marks an object as trashed. Trashed objects are still returned by Get but never listed.
func (f *Fake) Trash(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[id].Trashed = true
}

// Remove deletes an object permanently.
func (f *Fake) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(id)
}

// Content returns the stored content of a file and whether the file has content.
func (f *Fake) Content(id string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.contents[id]
	return slices.Clone(data), ok
}

// Exists reports whether an object with the given id exists, trashed or not.
func (f *Fake) Exists(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[id]
	return ok
}

func (f *Fake) Get(ctx context.Context, id string) (*drivestorage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Gets++
	if err := f.fail("get", id); err != nil {
		return nil, err
	}
	o, ok := f.objects[id]
	if !ok {
		return nil, f.notFound("get", id)
	}
	return clone(o), nil
}

func (f *Fake) List(ctx context.Context, q drivestorage.Query, pageToken string) ([]*drivestorage.Object, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ParentID != "" {
		f.calls.ParentLists++
	} else if q.FoldersOnly && pageToken == "" {
		f.calls.FolderScans++
	}
	if err := f.fail("list", q.ParentID); err != nil {
		return nil, "", err
	}

	var matched []*drivestorage.Object
	for _, id := range f.order {
		o := f.objects[id]
		if o.Trashed || (q.FoldersOnly && !o.IsFolder) {
			continue
		}
		if q.ParentID != "" && !slices.Contains(o.ParentIDs, q.ParentID) {
			continue
		}
		matched = append(matched, o)
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 || n > len(matched) {
			return nil, "", &drivestorage.RemoteError{Kind: drivestorage.RemoteOther, Account: f.Account, Op: "list", Err: fmt.Errorf("invalid page token %q", pageToken)}
		}
		offset = n
	}
	end := len(matched)
	if f.PageSize > 0 {
		end = min(offset+f.PageSize, len(matched))
	}
	page := make([]*drivestorage.Object, 0, end-offset)
	for _, o := range matched[offset:end] {
		page = append(page, clone(o))
	}
	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	}
	return page, next, nil
}

func (f *Fake) Insert(ctx context.Context, object *drivestorage.Object, parentID string, content io.Reader) (*drivestorage.Object, error) {
	var data []byte
	if content != nil {
		var err error
		if data, err = io.ReadAll(content); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Inserts++
	if err := f.fail("insert", parentID); err != nil {
		return nil, err
	}
	if _, ok := f.objects[parentID]; !ok {
		return nil, f.notFound("insert", parentID)
	}
	o := &drivestorage.Object{Name: object.Name, IsFolder: object.IsFolder, MimeType: object.MimeType}
	if o.MimeType == "" {
		o.MimeType = fileMimeType
		if o.IsFolder {
			o.MimeType = folderMimeType
		}
	}
	id := f.add(o, parentID, data)
	return clone(f.objects[id]), nil
}

func (f *Fake) Update(ctx context.Context, id string, object *drivestorage.Object, content io.Reader) (*drivestorage.Object, error) {
	var data []byte
	if content != nil {
		var err error
		if data, err = io.ReadAll(content); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Updates++
	if err := f.fail("update", id); err != nil {
		return nil, err
	}
	o, ok := f.objects[id]
	if !ok {
		return nil, f.notFound("update", id)
	}
	if object != nil && object.Name != "" {
		o.Name = object.Name
	}
	if content != nil {
		f.setContent(o, data)
	}
	f.now = f.now.Add(time.Second)
	o.ModTime = f.now
	return clone(o), nil
}

func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Deletes++
	if err := f.fail("delete", id); err != nil {
		return err
	}
	if _, ok := f.objects[id]; !ok {
		return f.notFound("delete", id)
	}
	f.remove(id)
	return nil
}

func (f *Fake) RootID(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.RootIDs++
	if err := f.fail("root", RootID); err != nil {
		return "", err
	}
	return RootID, nil
}

func (f *Fake) FetchContent(ctx context.Context, object *drivestorage.Object) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.Downloads++
	if err := f.fail("download", object.ID); err != nil {
		return nil, err
	}
	data, ok := f.contents[object.ID]
	if !ok {
		if _, exists := f.objects[object.ID]; !exists {
			return nil, f.notFound("download", object.ID)
		}
	}
	return io.NopCloser(bytes.NewReader(slices.Clone(data))), nil
}

// NotFound returns the error a Fake reports for a missing object.
func NotFound(account, op string) error {
	return &drivestorage.RemoteError{Kind: drivestorage.RemoteNotFound, Account: account, Op: op, Err: errors.New("file not found")}
}

// AuthExpired returns an error requiring re-authorization of account. An empty account denotes an unknown account.
func AuthExpired(account, op string) error {
	return &drivestorage.RemoteError{Kind: drivestorage.RemoteAuth, Account: account, Op: op, Err: errors.New("token expired")}
}

func (f *Fake) add(o *drivestorage.Object, parentID string, content []byte) string {
	f.nextID++
	f.now = f.now.Add(time.Second)
	o.ID = "F" + strconv.Itoa(f.nextID)
	o.ParentIDs = []string{parentID}
	o.ModTime = f.now
	o.CanEdit = true
	o.CanDownload = true
	if content != nil && !o.IsFolder {
		f.setContent(o, content)
	}
	f.objects[o.ID] = o
	f.order = append(f.order, o.ID)
	return o.ID
}

func (f *Fake) setContent(o *drivestorage.Object, content []byte) {
	sum := md5.Sum(content)
	f.contents[o.ID] = slices.Clone(content)
	o.Size = int64(len(content))
	o.MD5Checksum = hex.EncodeToString(sum[:])
	o.ContentLocation = "fake://" + o.ID
}

func (f *Fake) remove(id string) {
	delete(f.objects, id)
	delete(f.contents, id)
	f.order = slices.DeleteFunc(f.order, func(x string) bool { return x == id })
}

func (f *Fake) fail(op, id string) error {
	if f.Fail == nil {
		return nil
	}
	return f.Fail(op, id)
}

func (f *Fake) notFound(op, id string) error {
	return &drivestorage.RemoteError{Kind: drivestorage.RemoteNotFound, Account: f.Account, Op: op, Err: fmt.Errorf("file %s not found", id)}
}

func clone(o *drivestorage.Object) *drivestorage.Object {
	c := *o
	c.ParentIDs = slices.Clone(o.ParentIDs)
	return &c
}
