// Package pathutil turns raw request targets into absolute on-disk paths that
// are guaranteed to stay inside the configured root.
package pathutil

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned by Resolve when the decoded request path would
// escape the root.
var ErrTraversal = errors.New("path escapes root")

// DecodePercent decodes percent-escapes in a raw request path.
//
// Decoding is lenient: '%' followed by two hex digits becomes one byte, any
// other '%' (including one at end of input) is copied literally. It never
// fails. '.' and '..' segments are left alone here; collapsing them is the
// resolver's job.
func DecodePercent(raw string) string {
	if !strings.Contains(raw, "%") {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		if c == '%' && i+2 < len(raw) {
			hi, ok1 := hexVal(raw[i+1])
			lo, ok2 := hexVal(raw[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 3
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Resolve joins a decoded request path onto the canonical root and verifies
// containment. The join collapses '.', '..' and duplicate separators
// lexically; the result must then be root itself or have root plus a
// separator as prefix. The separator boundary matters: without it a sibling
// like /srv/wwwroot would pass a naive prefix check against root /srv/www.
//
// An empty or "/"-only request path resolves to root. On violation the
// resolved path is discarded and ErrTraversal is returned.
func Resolve(rootAbs, decoded string) (string, error) {
	cleanRoot := filepath.Clean(rootAbs)
	p := filepath.Join(cleanRoot, filepath.FromSlash(decoded))
	if p == cleanRoot {
		return p, nil
	}
	if strings.HasPrefix(p, cleanRoot+string(filepath.Separator)) {
		return p, nil
	}
	return "", ErrTraversal
}
