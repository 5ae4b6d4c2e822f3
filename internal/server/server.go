// Package server exposes the practice, SRS and statistics services over a
// JSON REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/crosstrainer/internal/config"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/stats"
)

// Deps are the services the API is served from.
type Deps struct {
	Practice  *practice.Service
	SRS       *srs.Service
	Stats     *stats.Service
	Scrambles *scramble.Bank
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	cfg        config.ServerConfig
	engine     *gin.Engine
	httpServer *http.Server

	practice  *practice.Service
	srs       *srs.Service
	stats     *stats.Service
	scrambles *scramble.Bank
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// New builds the server and registers every route.
func New(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		practice:  deps.Practice,
		srs:       deps.SRS,
		stats:     deps.Stats,
		scrambles: deps.Scrambles,
		metrics:   deps.Metrics,
		logger:    logger.With("component", "server"),
		now:       time.Now,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return c
}

func (s *Server) setupRoutes() {
	s.engine.NoRoute(s.handleNoRoute)

	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)

	scrambles := api.Group("/scrambles")
	{
		scrambles.GET("/random", s.handleRandomScrambles)
		scrambles.GET("/count", s.handleScrambleCount)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.handleCreateSession)
		sessions.GET("", s.handleListSessions)
		sessions.GET("/:id", s.handleGetSession)
		sessions.PATCH("/:id", s.handleUpdateSession)
	}

	attempts := api.Group("/attempts")
	{
		attempts.POST("", s.handleCreateAttempt)
		attempts.GET("", s.handleListAttempts)
		attempts.GET("/:id", s.handleGetAttempt)
	}

	st := api.Group("/stats")
	{
		st.GET("/summary", s.handleStatsSummary)
		st.GET("/daily", s.handleStatsDaily)
		st.GET("/time-by-difficulty", s.handleTimeByDifficulty)
		st.GET("/recent-notes", s.handleRecentNotes)
	}

	sr := api.Group("/srs", validationCode(CodeValidationError))
	{
		sr.GET("/due", s.handleDue)
		sr.POST("/review", s.handleReview)
		sr.GET("/item/:id/solution", s.handleSolution)
		sr.POST("/add", s.handleAddItem)
		sr.DELETE("/item/:id", s.handleRemoveItem)
		sr.GET("/stats", s.handleSRSStats)
	}

	solves := api.Group("/solves", validationCode(CodeValidationError))
	{
		solves.GET("", s.handleListSolves)
		solves.GET("/:id", s.handleGetSolve)
	}
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleNoRoute(c *gin.Context) {
	writeError(c, http.StatusNotFound, CodeNotFound,
		fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path))
}
