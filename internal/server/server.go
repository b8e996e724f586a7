// Package server exposes theme sessions over HTTP and streams their frames to
// WebSocket viewers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

const shutdownTimeout = 5 * time.Second

// FrameStore returns the last frame stored for a theme by an earlier run.
type FrameStore interface {
	Latest(ctx context.Context, themeName string) (theme.Frame, bool, error)
}

// Options configures a Server.
type Options struct {
	Addr        string
	Sessions    []*session.Session
	Broadcaster *session.Broadcaster
	Registry    *theme.Registry
	Store       FrameStore
	Logger      *logger.Logger
}

// Server routes bridge updates to sessions and frames to viewers.
type Server struct {
	addr     string
	sessions map[string]*session.Session
	registry *theme.Registry
	store    FrameStore
	hub      *Hub
	log      *logger.Logger
	router   *mux.Router
	started  time.Time
}

// New builds a server. Sessions must publish into opts.Broadcaster for
// WebSocket viewers to receive frames.
func New(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = theme.Default()
	}
	broadcaster := opts.Broadcaster
	if broadcaster == nil {
		broadcaster = session.NewBroadcaster(log)
	}

	s := &Server{
		addr:     opts.Addr,
		sessions: make(map[string]*session.Session, len(opts.Sessions)),
		registry: registry,
		store:    opts.Store,
		log:      log,
		router:   mux.NewRouter(),
		started:  time.Now(),
	}
	for _, sess := range opts.Sessions {
		if _, dup := s.sessions[sess.Theme()]; dup {
			return nil, fmt.Errorf("duplicate session for theme %q", sess.Theme())
		}
		s.sessions[sess.Theme()] = sess
	}
	s.hub = NewHub(broadcaster, log)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/ws/{theme}", s.handleWebSocket).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/themes", s.handleThemes).Methods(http.MethodGet)
	api.HandleFunc("/themes/{theme}/frame", s.handleFrame).Methods(http.MethodGet)
	api.HandleFunc("/themes/{theme}/update", s.handleUpdate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/themes/{theme}/closed", s.handleClosed).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/themes/{theme}/actions", s.handleAction).Methods(http.MethodPost, http.MethodOptions)

	s.router.Use(s.logRequests)
	s.router.Use(corsMiddleware)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket client hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves HTTP and drives every session until ctx is cancelled or one of
// them fails.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sess := range s.sortedSessions() {
		sess := sess
		g.Go(func() error {
			return sess.Run(gctx)
		})
	}

	g.Go(func() error {
		s.log.WithFields(map[string]any{"addr": s.addr, "themes": s.themeNames()}).Info("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", s.addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.hub.CloseAll()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

func (s *Server) session(name string) (*session.Session, bool) {
	sess, ok := s.sessions[name]
	return sess, ok
}

func (s *Server) sortedSessions() []*session.Session {
	out := make([]*session.Session, 0, len(s.sessions))
	for _, name := range s.themeNames() {
		out = append(out, s.sessions[name])
	}
	return out
}

func (s *Server) themeNames() []string {
	names := make([]string, 0, len(s.sessions))
	for name := range s.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
