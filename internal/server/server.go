// Package server owns the accept loop, the connection worker pool and the
// per-request handling pipeline.
package server

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"statichttpd/internal/config"
	"statichttpd/internal/httpwire"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server closed")

type Server struct {
	cfg config.Config

	mu     sync.Mutex
	ln     net.Listener
	closed bool

	wg sync.WaitGroup
}

func New(cfg config.Config) *Server {
	return &Server{cfg: cfg}
}

// ListenAndServe binds the configured address and serves until the listener
// fails or the server is closed. Binding happens first so startup errors
// surface before any request is accepted.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Listen())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on ln. Accepted connections are handed to a
// fixed-size worker pool through a bounded queue; when every worker is busy
// and the queue is full, the accept loop blocks, which delays further accepts
// instead of growing without bound under a connection flood.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()

	queue := make(chan net.Conn, s.cfg.Backlog)
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(queue)
	}

	var acceptErr error
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				acceptErr = ErrServerClosed
			} else {
				acceptErr = err
			}
			break
		}
		queue <- conn
	}
	close(queue)
	s.wg.Wait()
	return acceptErr
}

// Close stops the accept loop. Connections already handed to workers finish
// their in-flight request.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) worker(queue <-chan net.Conn) {
	defer s.wg.Done()
	for conn := range queue {
		s.serveConn(conn)
	}
}

// serveConn runs the keep-alive loop for one connection: read a request head,
// handle it, write the response, repeat until the peer closes, a deadline
// expires or keep-alive ends. Workers share no mutable state, so no locking
// is needed here.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	br := bufio.NewReader(conn)
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		req, err := httpwire.ReadRequest(br)
		if err != nil {
			// Peer close, idle timeout and malformed heads all terminate this
			// connection only. Malformed input is still worth a trace.
			if errors.Is(err, httpwire.ErrMalformedRequest) {
				log.WithField("remote", conn.RemoteAddr().String()).Debugf("dropping connection: %v", err)
			}
			return
		}

		if s.cfg.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		closing := !req.KeepAlive()

		start := time.Now()
		status, err := s.handle(conn, req, closing)
		if s.cfg.LogRequests {
			log.WithFields(log.Fields{
				"method":   req.Method,
				"target":   req.Target,
				"status":   status,
				"remote":   conn.RemoteAddr().String(),
				"duration": time.Since(start).Round(time.Microsecond).String(),
			}).Info("request")
		}
		if err != nil {
			// Write failure: the peer is gone, nothing to retry.
			return
		}
		if closing {
			return
		}
	}
}
