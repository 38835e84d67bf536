package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/vinfox/go_vin/internal/client"
	"github.com/vinfox/go_vin/internal/config"
	"github.com/vinfox/go_vin/internal/handlers"
	"github.com/vinfox/go_vin/internal/logger"
	"github.com/vinfox/go_vin/internal/resolver"
	"github.com/vinfox/go_vin/internal/services"
)

func main() {
	// Initialize structured logger
	logger.Init()
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Info(ctx, "API Server starting",
		"host", cfg.API.Host,
		"port", cfg.API.Port,
		"auth_enabled", cfg.Auth.Enabled,
		"batch_max_tokens", cfg.Batch.MaxTokens,
		"batch_concurrency", cfg.Batch.Concurrency)

	// Initialize upstream clients
	decodeClient := client.NewDecodeAPIClient(cfg.Decode.BaseURL, cfg.Decode.Timeout)
	recallClient := client.NewRecallAPIClient(cfg.Recall.BaseURL, cfg.Recall.Timeout)

	// Initialize the resolution engine
	validator := services.NewValidator()
	singleResolver := resolver.NewResolver(validator, decodeClient, recallClient)
	batchResolver := resolver.NewBatchResolver(validator, decodeClient,
		cfg.Batch.MaxTokens, cfg.Batch.Concurrency)

	// Initialize handlers
	resolveHandler := handlers.NewResolveHandler(singleResolver, batchResolver)
	proxyHandler := handlers.NewRecallProxyHandler(cfg.Recall.BaseURL, cfg.Recall.Timeout)

	// Initialize middleware
	correlationMiddleware := handlers.NewCorrelationMiddleware()
	authMiddleware := handlers.NewAuthMiddleware(cfg)
	recoveryMiddleware := handlers.NewRecoveryMiddleware()

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return recoveryMiddleware.Recover(
			authMiddleware.Authenticate(
				correlationMiddleware.Assign(h)))
	}

	// Set up HTTP routes
	router := mux.NewRouter()
	router.HandleFunc("/api/resolve", wrap(resolveHandler.HandleResolve)).Methods(http.MethodGet)
	router.HandleFunc("/api/batch", wrap(resolveHandler.HandleBatch)).Methods(http.MethodPost)
	router.HandleFunc("/api/recalls", wrap(proxyHandler.HandleRecalls)).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.HandleHealth).Methods(http.MethodGet)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "address", addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)

	case sig := <-sigChan:
		logger.Info(ctx, "Received shutdown signal", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown error", "error", err.Error())
			// Force close if graceful shutdown fails
			server.Close()
		}

		logger.Info(ctx, "Server shutdown complete")
	}
}
