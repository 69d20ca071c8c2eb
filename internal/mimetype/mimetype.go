// Package mimetype maps file extensions to content types.
package mimetype

import "path/filepath"

// Fallback is served for any extension not present in the table.
const Fallback = "application/octet-stream"

// table maps a file extension (with leading dot) to its content type.
// Built once at process start and never mutated, so it is safe to share
// across workers without locking. Lookup is case-sensitive.
var table = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".pdf":  "application/pdf",
	".xml":  "application/xml",
}

// Classify returns the content type for a file path based on the extension of
// its last segment (case preserved). Unknown or missing extensions map to
// Fallback.
func Classify(path string) string {
	if ct, ok := table[filepath.Ext(path)]; ok {
		return ct
	}
	return Fallback
}
