// Package main is the entry point for the cloai-service application.
// It wires the client registry, usage persistence and REST API together
// and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	v1 "github.com/childmindresearch/cloai-service/internal/api/rest/v1"
	"github.com/childmindresearch/cloai-service/internal/app"
	"github.com/childmindresearch/cloai-service/internal/domain/llm"
	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/persistence"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/persistence/models"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/providers"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is optional
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cloai-service",
		Short: "HTTP service exposing configured LLM clients",
		Long: `cloai-service exposes configured LLM clients over a REST API.

Clients are declared in a JSON document read from the CONFIG_JSON environment
variable, the file named by CONFIG_PATH or ./config.json, in that order.
Service settings (port, logging, usage database) are read from a YAML file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the service settings YAML file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Parse and validate the service settings and client declarations, then exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return validateConfig(os.Stdout, configPath)
		},
	}

	rootCmd.AddCommand(serveCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// validateConfig checks both configuration documents and reports every
// failure, so a broken service YAML is caught before serve is attempted.
func validateConfig(w io.Writer, configPath string) error {
	var errs []error

	serviceSettings, err := config.InitializeServiceSettings(configPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("service settings: %w", err))
	}

	clientSettings, err := config.LoadClientSettings()
	if err != nil {
		errs = append(errs, fmt.Errorf("client declarations: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Fprintf(w, "Configuration valid: %d client(s), serving on port %s\n",
		len(clientSettings), serviceSettings.Server.Port)
	return nil
}

func serve(ctx context.Context, configPath string) error {
	serviceSettings, err := config.InitializeServiceSettings(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&serviceSettings.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(ctx, serviceSettings, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(serviceSettings, deps, log)
}

// appServices holds all initialized application services
type appServices struct {
	prompt        llm.PromptService
	client        llm.ClientService
	usageMetadata usage.MetadataService
}

// initializeDependencies sets up all application components
func initializeDependencies(ctx context.Context, cfg *config.ServiceSettings, log logger.Logger) (*appServices, error) {
	// Load and validate client declarations
	clientSettings, err := config.LoadClientSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load client settings: %w", err)
	}

	registry, err := providers.BuildRegistry(ctx, clientSettings, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build client registry: %w", err)
	}
	log.Info("Configured clients: ", registry.IDs())

	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.UsageRecordModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	usageRepo, err := persistence.NewGormUsageRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage repository: %w", err)
	}

	// Initialize services
	promptService, err := app.NewPromptService(registry, usageRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt service: %w", err)
	}

	clientService, err := app.NewClientService(registry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create client service: %w", err)
	}

	usageMetadataService, err := app.NewUsageMetadataService(usageRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage metadata service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		prompt:        promptService,
		client:        clientService,
		usageMetadata: usageMetadataService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.ServiceSettings, services *appServices, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r, services.prompt, services.client, services.usageMetadata)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("Server stopped")
		return nil
	}
}
