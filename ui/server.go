package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"digitpad/app"
	"digitpad/internal"
	"digitpad/internal/errors"
	"digitpad/ports"
	"digitpad/ui/templates/fragments"
)

// Server represents the web server hosting the sketch pad page and its API
type Server struct {
	router    *gin.Engine
	templates *template.Template
	assets    fs.FS
	sessions  *app.SessionManager
	predictor *app.PredictorService
	inspector ports.ModelInspector
	logger    *internal.Logger
}

// Dependencies wires the server to the application services.
type Dependencies struct {
	Sessions  *app.SessionManager
	Predictor *app.PredictorService
	// Inspector is optional; without it /api/model reports unknown.
	Inspector ports.ModelInspector
	Logger    *internal.Logger
	// Assets overrides the embedded templates and static files.
	Assets fs.FS
}

// NewServer parses the templates, verifies the page contract and registers
// routes. A page missing a required element fails here rather than in the
// browser.
func NewServer(deps Dependencies) (*Server, error) {
	if deps.Sessions == nil || deps.Predictor == nil {
		return nil, errors.ConfigInvalid("session manager and predictor service are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	var assets fs.FS = embeddedFiles
	if deps.Assets != nil {
		assets = deps.Assets
	}

	templates, err := template.New("").ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:    gin.Default(),
		templates: templates,
		assets:    assets,
		sessions:  deps.Sessions,
		predictor: deps.Predictor,
		inspector: deps.Inspector,
		logger:    logger.With("ui"),
	}

	if err := s.verifyPageContract(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/api/model", s.handleModel)

	s.router.POST("/api/sessions", s.handleCreateSession)

	sessions := s.router.Group("/api/sessions/:id", s.loadSession)
	sessions.DELETE("", s.handleDeleteSession)
	sessions.POST("/events", s.handleEvents)
	sessions.POST("/clear", s.handleClear)
	sessions.GET("/canvas.png", s.handleCanvas)
	sessions.POST("/predict", s.handlePredict)
}

// verifyPageContract renders the index page once with placeholder data and
// checks that every element the page script relies on is present.
func (s *Server) verifyPageContract() error {
	page, err := s.render(fragments.IndexPage, indexData{SessionID: "contract-check", Width: 1, Height: 1})
	if err != nil {
		return errors.Wrap(err, "failed to render index page")
	}
	return CheckPageContract(page)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
