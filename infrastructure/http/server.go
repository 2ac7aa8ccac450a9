package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	sessioncontext "retailenroll/frontend/shared/context"
	"retailenroll/infrastructure/argon"
	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/cache"
	"retailenroll/infrastructure/enrollment"
	sessioncookie "retailenroll/infrastructure/session"
	"retailenroll/infrastructure/sqlite"
)

//go:embed assets/*
var assets embed.FS

var (
	ShutdownTimeout = 2 * time.Second
	SweepInterval   = 10 * time.Minute
)

// Options carries the settings the routes need beyond the core services.
type Options struct {
	Period        string
	SessionTTL    time.Duration
	CookieSecure  bool
	MaxPhotoBytes int64
	Location      *time.Location
	OperatorKey   argon.KeyCheck
	BridgeKey     argon.KeyCheck
}

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux
	stop   context.CancelFunc

	DB         *sqlite.DB
	Sessions   *cache.EnrollmentSessionCache
	Audit      *audit.Service
	Controller *enrollment.Controller
	Options

	now func() time.Time
}

// NewServer creates a new http server.
func NewServer(addr string, db *sqlite.DB, sessions *cache.EnrollmentSessionCache, auditSvc *audit.Service, ctrl *enrollment.Controller, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Server{
		Addr:       addr,
		router:     chi.NewRouter(),
		DB:         db,
		Sessions:   sessions,
		Audit:      auditSvc,
		Controller: ctrl,
		Options:    opts,
		now:        time.Now,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			w.Header().Set("Permissions-Policy", "geolocation=(self), camera=(self)")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "text/html", "text/css", "application/javascript", "application/json"))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.RegisterExportRoutes(s.router)
	s.router.Group(func(r chi.Router) {
		r.Use(s.SessionMiddleware)
		s.RegisterEnrollmentRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionMiddleware attaches the caller's enrollment session, starting a new
// one when the cookie is missing or the session has expired.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := s.now()
		var sess *enrollment.Session
		if c, err := r.Cookie(sessioncookie.CookieName); err == nil && c.Value != "" {
			if found, ok := s.Sessions.FindSessionBySessionToken(c.Value, now); ok {
				sess = found
			} else {
				slog.Info("enrollment session not found; starting a new one", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			}
		}
		if sess == nil {
			sess = enrollment.NewSession(uuid.NewString(), r.UserAgent(), now)
			s.Sessions.AddSession(sess)
		}
		sess.Touch(now)
		http.SetCookie(w, sessioncookie.SessionCookie(sess.ID, sessioncookie.MaxAge(s.SessionTTL), s.CookieSecure))

		ctx := sessioncontext.NewContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start starts the HTTP server and the idle session sweeper.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go s.sweepSessions(ctx)
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("err", err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	if s.stop != nil {
		s.stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sessions.Sweep(s.now()); n > 0 {
				slog.Info("idle enrollment sessions swept", slog.Int("removed", n), slog.Int("remaining", s.Sessions.Len()))
			}
		}
	}
}
