// Package web provides the HTTP server and handlers for the structure
// table editor.
package web

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/Rajas1877/structgrid/internal/config"
	"github.com/Rajas1877/structgrid/internal/core"
	"github.com/Rajas1877/structgrid/internal/grid"
	"github.com/Rajas1877/structgrid/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// StructureService is the slice of core.Service the handlers use. Narrowed
// to an interface so handler tests can run against a fake.
type StructureService interface {
	LoadStructure(ctx context.Context, filter string, page int) (*core.PageView, error)
	SaveChanges(ctx context.Context, original, edited grid.Snapshot) (int, error)
	AddColumn(ctx context.Context, name string) error
	ExportCSV(w io.Writer, page grid.Snapshot) error
	ExportFileName() string
}

// Server is the HTTP server for the structure editor.
type Server struct {
	service  StructureService
	sessions *session.Manager
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service StructureService, sessions *session.Manager, cfg *config.Config) *Server {
	s := &Server{
		service:  service,
		sessions: sessions,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)
	s.router.Use(requestMetrics)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Structure page and its HTMX partials
	s.router.Get("/", s.handleStructurePage)
	s.router.Route("/structure", func(r chi.Router) {
		r.Get("/grid", s.handleGrid)
		r.Post("/save", s.handleSave)
		r.Post("/columns", s.handleAddColumn)
		r.Post("/add-column/toggle", s.handleToggleAddColumn)
		r.Get("/export", s.handleExport)
	})

	// JSON view of the current table page
	s.router.Get("/api/structure", s.handleStructureJSON)

	// Prometheus metrics
	s.router.Get("/metrics", handleMetrics)
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// Scripts from self plus unpkg for HTMX; inline styles allowed.
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
