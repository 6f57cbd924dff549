package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

type HTTPServer struct {
	Addr    string
	DevMode bool

	// UI, when set, replaces the embedded editor served at "/".
	// The API remains available under /api/v1/.
	UI fs.FS

	API    APIV1Config
	Logger Logger

	// Routes, when set, registers extra routes next to the API.
	Routes func(r chi.Router)

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	closed bool
}

func NewHTTPServer(addr string, api APIV1Config) *HTTPServer {
	return &HTTPServer{Addr: addr, API: api}
}

// Handler returns the full handler the server would serve.
func (s *HTTPServer) Handler() http.Handler {
	api := s.API
	if api.Deps.Logger == nil && s.Logger != nil {
		api.Deps.Logger = s.Logger
	}
	var extra []func(chi.Router)
	if s.Routes != nil {
		extra = append(extra, s.Routes)
	}
	var handler http.Handler = NewRouter(api, s.UI, extra...)
	if s.DevMode {
		handler = WithDevCORS(handler)
	}
	return handler
}

// ListenAddr is the bound listener address, useful when Addr asked for
// port 0. It stays available after Stop.
func (s *HTTPServer) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	addr := s.Addr
	if addr == "" {
		addr = ":80"
	}
	logger := s.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.srv = srv
	s.ln = ln
	logger.Infof("web", "listening on %s (dev=%v)", ln.Addr(), s.DevMode)

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		logger.Errorf("web", "serve: %v", err)
	}()

	return nil
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
