package drivestorage

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// ProtocolID is the scheme of every path handled by this package.
	ProtocolID     = "gdrive"
	protocolPrefix = ProtocolID + "://"

	// NameIDSeparator joins an encoded name and an id within a path segment.
	// EncodeName emits lowercase hex escapes only, so its output never contains the separator.
	NameIDSeparator = "%5C"
)

const lowerHex = "0123456789abcdef"

// Segment is one element of a Path: the decoded name of an object and its remote id.
type Segment struct {
	Name string
	ID   string
}

// String returns the encoded form of the segment, name%5Cid.
func (s Segment) String() string {
	return EncodeName(s.Name) + NameIDSeparator + s.ID
}

// Path is a decoded path of the form gdrive://<account>/<name>%5C<id>/...
// A Path without segments denotes the root folder of the account.
// Parsing a Path does not check that its id chain exists remotely.
type Path struct {
	Account  string
	Segments []Segment
}

// EncodeName percent-encodes every byte of name outside [A-Za-z0-9-._~] with lowercase hex digits.
func EncodeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(lowerHex[c>>4])
		b.WriteByte(lowerHex[c&0x0f])
	}
	return b.String()
}

// DecodeName reverses EncodeName. Escapes in either hex case are accepted.
func DecodeName(token string) (string, error) {
	name, err := url.PathUnescape(token)
	if err != nil {
		return "", newInvalidPathError(fmt.Sprintf("malformed escape in %q: %v", token, err))
	}
	return name, nil
}

// RootPath returns the path of the root folder of account.
func RootPath(account string) string {
	return protocolPrefix + EncodeName(account) + "/"
}

// ParsePath decodes s into a Path.
func ParsePath(s string) (Path, error) {
	account, local, err := splitAccount(s)
	if err != nil {
		return Path{}, err
	}
	p := Path{Account: account}
	local = strings.TrimSuffix(local, "/")
	if local == "" {
		return p, nil
	}
	for _, token := range strings.Split(local, "/") {
		seg, err := parseSegment(token)
		if err != nil {
			return Path{}, fmt.Errorf("failed to parse %q: %w", s, err)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// String encodes p. The root path keeps its trailing slash.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(RootPath(p.Account))
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// IsRoot reports whether p denotes the account root.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// ID returns the id of the last segment, or "" for the account root.
func (p Path) ID() string {
	if p.IsRoot() {
		return ""
	}
	return p.Segments[len(p.Segments)-1].ID
}

// Name returns the decoded name of the last segment, or "" for the account root.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Name
}

// Child returns a new Path with the segment (name, id) appended.
func (p Path) Child(name, id string) Path {
	segments := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)
	return Path{Account: p.Account, Segments: append(segments, Segment{Name: name, ID: id})}
}

// Parent returns p without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return Path{Account: p.Account, Segments: p.Segments[:len(p.Segments)-1]}
}

// DisplayName returns a human-readable rendering of path such as gdrive://me@example.com/Docs/Notes.
// It does not touch the network. Malformed segments are shown as they are and an unparsable path is returned unchanged.
func DisplayName(path string) string {
	account, local, err := splitAccount(path)
	if err != nil {
		return path
	}
	displayName := protocolPrefix + account
	local = strings.TrimSuffix(local, "/")
	if local == "" {
		return displayName
	}
	for _, token := range strings.Split(local, "/") {
		sep := strings.LastIndex(token, NameIDSeparator)
		if sep < 0 {
			displayName += "/" + token
			continue
		}
		name := token[:sep]
		if decoded, err := DecodeName(name); err == nil {
			name = decoded
		}
		displayName += "/" + name
	}
	return displayName
}

// Filename returns the decoded name of the last segment of path.
func Filename(path string) (string, error) {
	p, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	if p.IsRoot() {
		return "", newInvalidPathError(fmt.Sprintf("cannot extract filename from root path %q", path))
	}
	return p.Name(), nil
}

func splitAccount(s string) (account, local string, err error) {
	if !strings.HasPrefix(s, protocolPrefix) {
		return "", "", newInvalidPathError(fmt.Sprintf("missing %q prefix: %q", protocolPrefix, s))
	}
	rest := strings.TrimPrefix(s, protocolPrefix)
	encodedAccount, local, _ := strings.Cut(rest, "/")
	if encodedAccount == "" {
		return "", "", newInvalidPathError(fmt.Sprintf("missing account: %q", s))
	}
	account, err = DecodeName(encodedAccount)
	if err != nil {
		return "", "", err
	}
	return account, local, nil
}

func parseSegment(token string) (Segment, error) {
	if token == "" {
		return Segment{}, newInvalidPathError("empty segment")
	}
	sep := strings.LastIndex(token, NameIDSeparator)
	if sep < 0 {
		return Segment{}, newInvalidPathError(fmt.Sprintf("segment %q has no id", token))
	}
	id := token[sep+len(NameIDSeparator):]
	if id == "" {
		return Segment{}, newInvalidPathError(fmt.Sprintf("segment %q has an empty id", token))
	}
	name, err := DecodeName(token[:sep])
	if err != nil {
		return Segment{}, err
	}
	return Segment{Name: name, ID: id}, nil
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
