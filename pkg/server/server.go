// Package server exposes a dispatcher over HTTP. It adapts net/http
// requests to the transport-independent dispatch types and owns the
// listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/welschmorgan/mocker/pkg/dispatch"
	"github.com/welschmorgan/mocker/pkg/logging"
)

// ErrAlreadyRunning is returned by Start when the server is running.
var ErrAlreadyRunning = errors.New("server is already running")

// Server serves mock responses over HTTP.
type Server struct {
	addr       string
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger

	mu         sync.Mutex
	running    bool
	listener   net.Listener
	httpServer *http.Server
}

// New creates a server for addr backed by the dispatcher. A nil logger
// disables logging.
func New(addr string, d *dispatch.Dispatcher, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{addr: addr, dispatcher: d, log: log}
}

// Start binds the listener and begins serving in the background. It
// returns once the listener is bound, so Addr reports the actual port
// even when the configured port was 0.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true

	s.log.Info("listening", "addr", listener.Addr().String())
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", "error", err)
		}
	}()
	return nil
}

// Stop drains in-flight requests and closes the listener. It is safe
// to call on a server that never started.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound listen address, or the configured one before
// Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ServeHTTP adapts one HTTP exchange to the dispatcher. Multi-valued
// query keys and headers keep their first value.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := dispatch.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   firstValues(r.URL.Query()),
		Headers: firstValues(r.Header),
	}
	res := s.dispatcher.Handle(req)

	for name, v := range res.Headers {
		w.Header().Set(name, v)
	}
	w.WriteHeader(res.Status)
	if len(res.Body) > 0 {
		if _, err := w.Write(res.Body); err != nil {
			s.log.Warn("response write failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
	}

	s.log.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", res.Status,
		"duration", time.Since(start),
	)
}

func firstValues(m map[string][]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, vs := range m {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
