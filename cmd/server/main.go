package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OpenMSDQ/msdq/internal/audit"
	"github.com/OpenMSDQ/msdq/internal/auth"
	"github.com/OpenMSDQ/msdq/internal/config"
	"github.com/OpenMSDQ/msdq/internal/database"
	"github.com/OpenMSDQ/msdq/internal/documents"
	"github.com/OpenMSDQ/msdq/internal/events"
	"github.com/OpenMSDQ/msdq/internal/middleware"
	"github.com/OpenMSDQ/msdq/internal/notification"
	"github.com/OpenMSDQ/msdq/internal/workflow"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("workflow configuration",
		"overdue_threshold_days", cfg.Workflow.OverdueThresholdDays,
		"event_buffer_size", cfg.Workflow.EventBufferSize,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Apply schema
	if err := database.Migrate(db,
		&model.Workflow{},
		&model.Query{},
		&model.Document{},
		&audit.Record{},
		&auth.UserContext{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Event sinks: notification gateway and compliance audit trail
	sinks := []events.Sink{audit.NewSink(db)}
	if cfg.Notification.WebhookURL != "" {
		sinks = append(sinks, notification.NewWebhookGateway(
			cfg.Notification.WebhookURL,
			time.Duration(cfg.Notification.TimeoutSeconds)*time.Second,
		))
	} else {
		sinks = append(sinks, notification.NewLogGateway())
	}

	// Initialize the workflow core
	wm := workflow.NewManager(db, &cfg.Workflow, sinks...)
	defer wm.Stop()

	// Document storage
	storageDriver, err := documents.NewStorageFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}
	documentHandler := documents.NewHandler(documents.NewDocumentService(db, storageDriver))

	// Set up HTTP routes
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(&cfg.CORS))
	engine.Use(auth.Middleware(auth.NewAuthService(db)))

	engine.GET("/healthz", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	wm.RegisterRoutes(api)
	api.POST("/workflows/:workflowId/documents", documentHandler.HandleAttach)
	api.GET("/workflows/:workflowId/documents", documentHandler.HandleList)
	api.GET("/documents/:key", documentHandler.HandleDownload)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
