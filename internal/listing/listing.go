// Package listing renders generated directory index pages.
package listing

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
	Size  uint64
}

// ReadEntries lists the immediate children of dirAbs, directories first, each
// group in ascending byte-wise name order. The filesystem is re-read on every
// call; nothing is cached.
func ReadEntries(dirAbs string) ([]Entry, error) {
	dirents, err := os.ReadDir(dirAbs)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		e := Entry{Name: de.Name(), IsDir: de.IsDir()}
		if !e.IsDir {
			// Size is display-only; a vanished entry just shows 0.
			if info, err := de.Info(); err == nil && info.Size() > 0 {
				e.Size = uint64(info.Size())
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Render produces a complete HTML index document for dirAbs. reqPath is the
// decoded request path the directory was reached under; it is used for the
// heading and as the base of every anchor, so the links work whether or not
// the client requested a trailing slash.
//
// Entry names are escaped for both text and attribute positions. Directory
// anchors and labels carry a trailing '/'.
func Render(dirAbs, reqPath string) ([]byte, error) {
	entries, err := ReadEntries(dirAbs)
	if err != nil {
		return nil, err
	}

	base := reqPath
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	escBase := escapePath(base)

	var b strings.Builder
	title := html.EscapeString(base)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Index of ")
	b.WriteString(title)
	b.WriteString("</title></head>\n<body>\n<h1>Index of ")
	b.WriteString(title)
	b.WriteString("</h1>\n<ul>\n")
	for _, e := range entries {
		// Percent-encode for the URL, then escape for the attribute position:
		// PathEscape leaves characters like '&' alone.
		href := html.EscapeString(escBase + url.PathEscape(e.Name))
		label := html.EscapeString(e.Name)
		if e.IsDir {
			fmt.Fprintf(&b, "<li><a href=\"%s/\">%s/</a></li>\n", href, label)
		} else {
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a> (%s)</li>\n", href, label, humanize.Bytes(e.Size))
		}
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

// escapePath percent-encodes each segment of a slash-separated path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
