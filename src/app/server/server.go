// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"pharmarx/src/app/http/handler"
	"pharmarx/src/app/middleware"
	"pharmarx/src/core/ports"
	"pharmarx/src/core/usecase"
	"pharmarx/src/infra/config"
	"pharmarx/src/infra/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *gin.Engine
	http   *http.Server

	// Handlers
	healthHandler       *handler.HealthHandler
	catalogHandler      *handler.CatalogHandler
	prescriptionHandler *handler.PrescriptionHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, repo ports.PharmacyRepository) *Server {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	router := gin.New()

	// Create services, each logging under its own component name
	healthService := usecase.NewHealthService(repo, logger.WithComponent(log, "health"))
	catalogService := usecase.NewCatalogService(repo, logger.WithComponent(log, "catalog"))
	ownership := usecase.NewOwnershipValidator(repo, logger.WithComponent(log, "ownership"))
	prescriptionService := usecase.NewPrescriptionService(repo, ownership, logger.WithComponent(log, "prescription"))

	s := &Server{
		cfg:                 cfg,
		log:                 log,
		router:              router,
		healthHandler:       handler.NewHealthHandler(healthService),
		catalogHandler:      handler.NewCatalogHandler(catalogService),
		prescriptionHandler: handler.NewPrescriptionHandler(prescriptionService),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Order matters: Recovery should be first to catch all panics
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Logging(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	api := s.router.Group("/api")
	{
		pharmacy := api.Group("/pharmacy")

		// Catalog
		pharmacy.GET("/medicines", s.catalogHandler.List)

		// Prescription lifecycle. Creation requires an authenticated
		// subject; reads and status updates are open to downstream flows
		// (dispensing, payment).
		pharmacy.POST("/prescriptions",
			middleware.BearerAuth(s.cfg.Auth),
			s.prescriptionHandler.Create,
		)
		pharmacy.GET("/prescriptions/:id", s.prescriptionHandler.Get)
		pharmacy.PATCH("/prescriptions/:id/status", s.prescriptionHandler.UpdateStatus)

		// Patient-scoped reads
		pharmacy.GET("/patients/:patient_id/prescriptions/latest", s.prescriptionHandler.Latest)
		pharmacy.GET("/patients/:patient_id/prescriptions", s.prescriptionHandler.ListForPatient)
	}

	// Handle 404
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":       "NOT_FOUND",
				"message":    "The requested resource was not found",
				"request_id": middleware.GetRequestID(c),
			},
		})
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.log.Info("starting HTTP server",
			"addr", s.cfg.Server.Addr(),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	// Graceful shutdown
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
