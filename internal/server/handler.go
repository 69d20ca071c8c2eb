package server

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"statichttpd/internal/httpwire"
	"statichttpd/internal/listing"
	"statichttpd/internal/mimetype"
	"statichttpd/internal/pathutil"
)

const (
	textPlain = "text/plain"
	textHTML  = "text/html"

	indexFile = "index.html"
)

// handle processes one request and writes exactly one response to w. It
// returns the status that was sent and any write error; filesystem and
// client-input errors never escape as errors, they become 4xx/5xx responses.
func (s *Server) handle(w io.Writer, req *httpwire.Request, closing bool) (int, error) {
	if req.Method != "GET" {
		return s.reply(w, httpwire.StatusMethodNotAllowed, "method not allowed\n", closing)
	}

	decoded := pathutil.DecodePercent(req.Path())
	target, err := pathutil.Resolve(s.cfg.Root, decoded)
	if err != nil {
		// Traversal attempts answer exactly like genuine absence, so probing
		// cannot map the tree around the root.
		return s.reply(w, httpwire.StatusNotFound, "not found\n", closing)
	}

	f, err := os.Open(target)
	if err != nil {
		// ENOTDIR means a path component beneath a regular file: from the
		// client's view the node is simply absent, and treating it as a
		// server error would let trivial URLs fill the error log.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return s.serveAbsent(w, target, decoded, closing)
		}
		log.WithField("path", target).Errorf("open: %v", err)
		return s.reply(w, httpwire.StatusInternalServerError, "internal server error\n", closing)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		log.WithField("path", target).Errorf("stat: %v", err)
		return s.reply(w, httpwire.StatusInternalServerError, "internal server error\n", closing)
	}

	if fi.IsDir() {
		if idx, ifi, ierr := openIndex(target); ierr == nil {
			defer idx.Close()
			return httpwire.StatusOK,
				httpwire.WriteFileResponse(w, httpwire.StatusOK, textHTML, idx, ifi.Size(), closing)
		}
		return s.serveListing(w, target, decoded, closing)
	}

	return httpwire.StatusOK,
		httpwire.WriteFileResponse(w, httpwire.StatusOK, mimetype.Classify(target), f, fi.Size(), closing)
}

// serveAbsent handles a resolved path that failed to open as missing: the
// default document may still exist below it, and a directory listing is
// attempted before giving up with 404. Races with concurrent filesystem
// changes land here too; the filesystem is re-checked rather than trusted.
func (s *Server) serveAbsent(w io.Writer, target, decoded string, closing bool) (int, error) {
	if idx, ifi, err := openIndex(target); err == nil {
		defer idx.Close()
		return httpwire.StatusOK,
			httpwire.WriteFileResponse(w, httpwire.StatusOK, textHTML, idx, ifi.Size(), closing)
	}
	if body, err := listing.Render(target, decoded); err == nil {
		return httpwire.StatusOK,
			httpwire.WriteResponse(w, httpwire.StatusOK, textHTML, body, closing)
	}
	return s.reply(w, httpwire.StatusNotFound, "not found\n", closing)
}

func (s *Server) serveListing(w io.Writer, target, decoded string, closing bool) (int, error) {
	body, err := listing.Render(target, decoded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.reply(w, httpwire.StatusNotFound, "not found\n", closing)
		}
		log.WithField("path", target).Errorf("list: %v", err)
		return s.reply(w, httpwire.StatusInternalServerError, "internal server error\n", closing)
	}
	return httpwire.StatusOK,
		httpwire.WriteResponse(w, httpwire.StatusOK, textHTML, body, closing)
}

func (s *Server) reply(w io.Writer, code int, body string, closing bool) (int, error) {
	return code, httpwire.WriteResponse(w, code, textPlain, []byte(body), closing)
}

// openIndex opens the default document under dir. An index.html that is
// itself a directory counts as absent.
func openIndex(dir string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, fi, nil
}
