// package server contains middleware & handlers for the publish/review web app
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igreview/internal/services"
	"github.com/desertthunder/igreview/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, session loading, etc.
type Middleware func(http.Handler) http.Handler

// Publisher runs the media publish workflow. Implemented by [tasks.PublishEngine].
type Publisher interface {
	Publish(ctx context.Context, accessToken, accountID string, req services.PublishRequest) (*services.PublishResult, error)
}

// Server wires the OAuth flow, publish workflow and comment browser behind
// the inbound HTTP routes.
type Server struct {
	auth      services.Authenticator
	comments  services.CommentAPI
	publisher Publisher
	sessions  *SessionStore
	templates *Templates
	logger    *log.Logger
	config    *shared.Config
	router    *BasicRouter
}

// Options contains the dependencies for creating a Server.
type Options struct {
	Auth      services.Authenticator
	Comments  services.CommentAPI
	Publisher Publisher
	Sessions  *SessionStore
	Logger    *log.Logger
	Config    *shared.Config
}

// New creates a Server, loads its templates and registers all routes.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Sessions == nil {
		opts.Sessions = NewSessionStore(time.Duration(opts.Config.Server.SessionTTLMinutes) * time.Minute)
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	s := &Server{
		auth:      opts.Auth,
		comments:  opts.Comments,
		publisher: opts.Publisher,
		sessions:  opts.Sessions,
		templates: templates,
		logger:    shared.WithLogger(opts.Logger, "component", "server"),
		config:    opts.Config,
	}
	s.router = s.buildRouter()

	return s, nil
}

func (s *Server) buildRouter() *BasicRouter {
	router := NewBasicRouter()
	router.Use(
		Logging(s.logger),
		BasicAuth(s.config.Review.User, s.config.Review.Pass),
		WithSession(s.sessions),
	)

	router.Handle(http.MethodGet, "/{$}", http.HandlerFunc(s.handleHome))
	router.Handle(http.MethodGet, "/auth/login", http.HandlerFunc(s.handleLogin))
	router.Handle(http.MethodGet, "/auth/callback", http.HandlerFunc(s.handleCallback))
	router.Handle(http.MethodGet, "/publish", s.connected(s.handlePublishForm))
	router.Handle(http.MethodPost, "/publish", s.connected(s.handlePublish))
	router.Handle(http.MethodGet, "/comments", s.connected(s.handleComments))
	router.Handle(http.MethodPost, "/comments/reply", s.connected(s.handleReply))

	return router
}

// ServeHTTP implements [http.Handler] for the entire app.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the HTTP server until ctx is cancelled, sweeping idle sessions
// in the background.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: s}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sweepSessions(janitorCtx)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	s.logger.Info("app listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.sessions.Sweep(); removed > 0 {
				s.logger.Debug("swept idle sessions", "removed", removed)
			}
		}
	}
}
