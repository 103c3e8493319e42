package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/codyseavey/pokeprice/internal/api"
	"github.com/codyseavey/pokeprice/internal/config"
	"github.com/codyseavey/pokeprice/internal/database"
	"github.com/codyseavey/pokeprice/internal/overlay"
	"github.com/codyseavey/pokeprice/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Tee logs to a rotating file when configured
	if cfg.Server.LogFile != "" {
		logWriter := setupLogFile(cfg.Server.LogFile)
		defer logWriter.Close()
	}

	// Initialize database
	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	lookupCache := services.NewLookupCacheService(database.GetDB())
	pokemonService := services.NewPokemonTCGService(services.PokemonTCGConfig{
		BaseURL:       cfg.Lookup.BaseURL,
		APIKey:        cfg.Lookup.APIKey,
		Timeout:       cfg.LookupTimeout(),
		RatePerSecond: cfg.Lookup.RatePerSecond,
		CacheSize:     cfg.Lookup.CacheSize,
		CacheTTL:      cfg.LookupCacheTTL(),
	}, lookupCache)
	if cfg.Lookup.APIKey == "" {
		log.Println("POKEMON_TCG_API_KEY not set, using the anonymous rate limit")
	}

	// Cache pruner removes lookups that can no longer be served
	cachePruner := services.NewCachePruner(database.GetDB(), cfg.LookupCacheTTL(), services.DefaultPruneInterval)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cache pruner in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in cache pruner: %v - restarting in 30 seconds", r)
					}
				}()
				cachePruner.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Cache pruner restarting after panic recovery...")
			}
		}
	}()

	sessions := overlay.NewSessionStore(pokemonService, cfg.Overlay.MaxSessions, cfg.SessionTTL())

	// Setup router
	router := api.SetupRouter(sessions, lookupCache, cfg.Server.CORSAllowedOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the cache pruner
	cancel()

	// Disconnect event streams so Shutdown does not wait on them
	sessions.Purge()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupLogFile(filename string) *lumberjack.Logger {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Failed to create log directory: %v", err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	out := io.MultiWriter(os.Stderr, logWriter)
	log.SetOutput(out)
	gin.DefaultWriter = io.MultiWriter(os.Stdout, logWriter)
	gin.DefaultErrorWriter = out
	return logWriter
}
