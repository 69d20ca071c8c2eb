// Package httpwire implements the HTTP/1.x wire layer: reading request heads
// off a connection and emitting length-framed responses. It is intentionally
// minimal; the server owns its connection loop, so the standard net/http
// machinery is not used.
package httpwire

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRequest is returned when a request head cannot be parsed.
// Transport errors (peer close, timeout) pass through unchanged so the caller
// can tell the two apart.
var ErrMalformedRequest = errors.New("malformed request head")

// maxHeaderLines bounds the header block of a single request.
const maxHeaderLines = 100

// Request is one parsed request head. The target is kept raw
// (percent-encoded path plus optional query); decoding happens downstream.
type Request struct {
	Method string
	Target string
	Proto  string
	Header map[string]string // keys folded to lower case; later values win
}

// ReadRequest reads one request head from br: request line, header block,
// terminating blank line. Any body is not consumed.
func ReadRequest(br *bufio.Reader) (*Request, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, line)
	}
	req := &Request{
		Method: parts[0],
		Target: parts[1],
		Proto:  parts[2],
		Header: make(map[string]string, 8),
	}
	for i := 0; ; i++ {
		if i >= maxHeaderLines {
			return nil, fmt.Errorf("%w: too many header lines", ErrMalformedRequest)
		}
		hl, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if hl == "" {
			break
		}
		k, v, ok := strings.Cut(hl, ":")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedRequest, hl)
		}
		req.Header[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return req, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Path returns the path component of the raw target, query stripped.
func (r *Request) Path() string {
	if i := strings.IndexByte(r.Target, '?'); i >= 0 {
		return r.Target[:i]
	}
	return r.Target
}

// KeepAlive reports whether the connection should stay open after this
// request. HTTP/1.1 defaults to keep-alive unless "Connection: close";
// HTTP/1.0 closes unless "Connection: keep-alive".
func (r *Request) KeepAlive() bool {
	conn := strings.ToLower(r.Header["connection"])
	if r.Proto == "HTTP/1.0" {
		return conn == "keep-alive"
	}
	return conn != "close"
}
