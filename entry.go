package drivestorage

import (
	"strings"
	"time"
)

const (
	mimeTypeGoogleAppFolder = "application/vnd.google-apps.folder"
	mimeTypePrefixGoogleApp = "application/vnd.google-apps."
)

// Entry describes an object listed or stat'ed through a Storage.
type Entry struct {
	// Path is the full gdrive:// path of the object.
	Path     string
	Name     string
	ID       string
	Mime     string
	IsFolder bool
	// Size is zero when the remote does not report one, which is the case for folders.
	Size     int64
	ModTime  time.Time
	// CanRead reports whether the content may be downloaded.
	CanRead  bool
	CanWrite bool
}

// IsAppFile reports whether the entry is a Google Workspace document, which has no binary content.
func (e Entry) IsAppFile() bool {
	return strings.HasPrefix(e.Mime, mimeTypePrefixGoogleApp)
}

func newEntry(o *Object, p Path) Entry {
	return Entry{
		Path:     p.String(),
		Name:     o.Name,
		ID:       o.ID,
		Mime:     o.MimeType,
		IsFolder: o.IsFolder,
		Size:     o.Size,
		ModTime:  o.ModTime,
		CanRead:  o.CanDownload,
		CanWrite: o.CanEdit,
	}
}
