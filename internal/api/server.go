package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"interunit-recon-backend/internal/api/handlers"
	"interunit-recon-backend/internal/application/service"
	"interunit-recon-backend/internal/infrastructure/export"
	"interunit-recon-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	recon      *service.ReconService
	exporter   *export.Exporter
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, recon *service.ReconService, exporter *export.Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		repo:     repo,
		recon:    recon,
		exporter: exporter,
	}

	s.router = s.buildRouter()

	return s
}

// buildRouter assembles middleware and routes.
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Get)

	api := router.Group("/api")
	{
		uploadsHandler := handlers.NewUploadsHandler(s.repo, s.recon)
		api.POST("/uploads", uploadsHandler.Upload)
		api.POST("/uploads/pair", uploadsHandler.UploadPair)
		api.GET("/uploads/recent", uploadsHandler.Recent)

		transactionsHandler := handlers.NewTransactionsHandler(s.repo)
		api.GET("/transactions", transactionsHandler.List)
		api.GET("/transactions/unmatched", transactionsHandler.Unmatched)
		api.GET("/filters", transactionsHandler.Filters)
		api.GET("/company-pairs", transactionsHandler.CompanyPairs)

		reconcileHandler := handlers.NewReconcileHandler(s.recon)
		api.POST("/reconcile", reconcileHandler.Run)
		api.POST("/reconcile/pair", reconcileHandler.RunPair)

		matchesHandler := handlers.NewMatchesHandler(s.repo)
		api.GET("/matches", matchesHandler.List)
		api.GET("/matches/pending", matchesHandler.Pending)
		api.GET("/matches/confirmed", matchesHandler.Confirmed)
		api.POST("/matches/reset", matchesHandler.Reset)
		api.POST("/matches/:uid/accept", matchesHandler.Accept)
		api.POST("/matches/:uid/reject", matchesHandler.Reject)

		statsHandler := handlers.NewStatsHandler(s.repo)
		api.GET("/stats", statsHandler.Get)

		exportHandler := handlers.NewExportHandler(s.repo, s.exporter)
		api.GET("/export/matched", exportHandler.Matched)
		api.GET("/export/unmatched", exportHandler.Unmatched)
	}

	return router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
