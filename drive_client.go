package drivestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

type driveClient struct {
	account string
	service *drive.Service
}

var _ Client = (*driveClient)(nil)

// NewDriveClient returns a Client backed by the Google Drive v3 API.
// The service should be authenticated for account, which is attached to the errors the client reports.
func NewDriveClient(account string, service *drive.Service) Client {
	return &driveClient{account: account, service: service}
}

const (
	driveFileFields  = "id,name,mimeType,parents,size,modifiedTime,md5Checksum,webContentLink,trashed,capabilities(canEdit,canDownload)"
	driveFilesFields = "nextPageToken,files(" + driveFileFields + ")"
	driveRootAlias   = "root"
)

func (c *driveClient) Get(ctx context.Context, id string) (*Object, error) {
	f, err := c.service.Files.Get(id).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.newDriveError("get", err)
	}
	return newObject(f), nil
}

func (c *driveClient) List(ctx context.Context, q Query, pageToken string) (objects []*Object, nextPageToken string, err error) {
	call := c.service.Files.List().
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Q(buildQuery(q)).
		Fields(driveFilesFields).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	list, err := call.Do()
	if err != nil {
		return nil, "", c.newDriveError("list", err)
	}
	for _, f := range list.Files {
		objects = append(objects, newObject(f))
	}
	return objects, list.NextPageToken, nil
}

func (c *driveClient) Insert(ctx context.Context, object *Object, parentID string, content io.Reader) (*Object, error) {
	f := &drive.File{
		Name:     object.Name,
		MimeType: object.MimeType,
		Parents:  []string{parentID},
	}
	if object.IsFolder {
		f.MimeType = mimeTypeGoogleAppFolder
	}
	call := c.service.Files.Create(f).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx)
	if content != nil {
		call = call.Media(content)
	}
	created, err := call.Do()
	if err != nil {
		return nil, c.newDriveError("insert", err)
	}
	return newObject(created), nil
}

func (c *driveClient) Update(ctx context.Context, id string, object *Object, content io.Reader) (*Object, error) {
	call := c.service.Files.Update(id, &drive.File{Name: object.Name, MimeType: object.MimeType}).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx)
	if content != nil {
		call = call.Media(content)
	}
	updated, err := call.Do()
	if err != nil {
		return nil, c.newDriveError("update", err)
	}
	return newObject(updated), nil
}

func (c *driveClient) Delete(ctx context.Context, id string) error {
	err := c.service.Files.Delete(id).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return c.newDriveError("delete", err)
	}
	return nil
}

// RootID resolves the "root" alias of the Drive API to the id of the account's root folder.
func (c *driveClient) RootID(ctx context.Context) (string, error) {
	f, err := c.service.Files.Get(driveRootAlias).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", c.newDriveError("get root", err)
	}
	return f.Id, nil
}

func (c *driveClient) FetchContent(ctx context.Context, object *Object) (io.ReadCloser, error) {
	if object.ContentLocation == "" {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	resp, err := c.service.Files.Get(object.ID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, c.newDriveError("download", err)
	}
	return resp.Body, nil
}

// newDriveError tags err with the kind of failure and the account of the client.
func (c *driveClient) newDriveError(op string, err error) error {
	return &RemoteError{
		Kind:    remoteErrorKind(err),
		Account: c.account,
		Op:      op,
		Err:     err,
	}
}

func remoteErrorKind(err error) RemoteErrorKind {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound:
			return RemoteNotFound
		case http.StatusUnauthorized:
			return RemoteAuth
		}
	}
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return RemoteAuth
	}
	return RemoteOther
}

func buildQuery(q Query) string {
	conds := []string{"trashed = false"}
	if q.FoldersOnly {
		conds = append(conds, fmt.Sprintf("mimeType = '%s'", mimeTypeGoogleAppFolder))
	}
	if q.ParentID != "" {
		conds = append(conds, fmt.Sprintf("'%s' in parents", escapeQuery(q.ParentID)))
	}
	return strings.Join(conds, " and ")
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}

func newObject(f *drive.File) *Object {
	var modTime time.Time
	if f.ModifiedTime != "" {
		t, err := time.Parse(time.RFC3339, f.ModifiedTime)
		if err != nil {
			logging.Warn("invalid modification time",
				logging.String("id", f.Id),
				logging.String("modifiedTime", f.ModifiedTime),
				logging.Err(err))
		}
		modTime = t
	}
	canEdit, canDownload := true, true
	if f.Capabilities != nil {
		canEdit = f.Capabilities.CanEdit
		canDownload = f.Capabilities.CanDownload
	}
	return &Object{
		ID:              f.Id,
		Name:            f.Name,
		ParentIDs:       f.Parents,
		IsFolder:        f.MimeType == mimeTypeGoogleAppFolder,
		MimeType:        f.MimeType,
		Size:            f.Size,
		ModTime:         modTime,
		MD5Checksum:     f.Md5Checksum,
		ContentLocation: f.WebContentLink,
		Trashed:         f.Trashed,
		CanEdit:         canEdit,
		CanDownload:     canDownload,
	}
}
