package httpwire

import (
	"fmt"
	"io"
	"strings"

	"statichttpd/internal/version"
)

// Status codes used by the server.
const (
	StatusOK                  = 200
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusInternalServerError = 500
)

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason phrase for a status code.
func StatusText(code int) string {
	if t, ok := statusText[code]; ok {
		return t
	}
	return "Unknown"
}

// copyChunkSize is the buffer size for streamed file bodies. Files are never
// read whole into memory.
const copyChunkSize = 32 * 1024

// WriteResponse emits a complete response with an in-memory body. The body
// is always length-framed via Content-Length; chunked encoding is never used.
func WriteResponse(w io.Writer, code int, contentType string, body []byte, closing bool) error {
	if err := writeHead(w, code, contentType, int64(len(body)), closing); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// WriteFileResponse emits the head with length from the caller's stat, then
// streams exactly length bytes from r in fixed-size chunks.
func WriteFileResponse(w io.Writer, code int, contentType string, r io.Reader, length int64, closing bool) error {
	if err := writeHead(w, code, contentType, length, closing); err != nil {
		return err
	}
	buf := make([]byte, copyChunkSize)
	_, err := io.CopyBuffer(w, io.LimitReader(r, length), buf)
	return err
}

func writeHead(w io.Writer, code int, contentType string, length int64, closing bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", code, StatusText(code))
	fmt.Fprintf(&b, "Server: statichttpd/%s\r\n", version.Version)
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", length)
	if closing {
		b.WriteString("Connection: close\r\n")
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}
