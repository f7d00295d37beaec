package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/propertyscope/content-engine/config"
	"github.com/propertyscope/content-engine/internal/api"
	"github.com/propertyscope/content-engine/internal/cache"
	"github.com/propertyscope/content-engine/internal/quality"
	"github.com/propertyscope/content-engine/internal/sitemap"
	"github.com/propertyscope/content-engine/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage. A broken database must not take the process down:
	// the sitemap endpoint serves its static fallback and the dashboard
	// serves zeroed stats until storage recovers.
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	// Optional response cache
	var respCache *cache.Cache
	if cfg.Redis.Addr != "" {
		respCache, err = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.GetCacheTTL(), nil)
		if err != nil {
			log.Printf("Redis unavailable, serving uncached: %v", err)
			respCache = nil
		} else {
			defer respCache.Close()
		}
	}

	siteCfg := sitemap.Config{
		BaseURL:       cfg.Site.BaseURL,
		Locales:       cfg.Site.Locales,
		DefaultLocale: cfg.Site.DefaultLocale,
		SourceTimeout: cfg.GetSitemapSourceTimeout(),
		BuildTimeout:  cfg.GetSitemapBuildTimeout(),
	}

	var builder *sitemap.Builder
	var processor *quality.Processor
	if store != nil {
		builder = sitemap.NewBuilder(siteCfg, sitemap.StoreSources(store), nil)
		processor = quality.NewProcessor(store, cfg.Quality.BatchSize, nil)
	}

	handler := api.NewHandler(store, processor, builder, siteCfg, respCache, nil)
	server := api.NewServer(cfg.Server.Port, handler)

	// Setup periodic batch scoring
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if processor != nil {
		ticker := time.NewTicker(cfg.GetQualityInterval())
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					log.Println("Starting periodic batch scoring...")
					processor.RunJob(ctx, cfg.GetQualityInterval())
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Start the API server
	go func() {
		log.Printf("Starting API server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(cancel, server)
}

func openStore(cfg *config.Config) storage.Store {
	var store storage.Store
	var err error

	switch cfg.Database.Driver {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.Database.URL)
	default:
		store, err = storage.NewPostgresStore(cfg.Database.URL)
	}
	if err != nil {
		log.Printf("Failed to initialize storage, running degraded: %v", err)
		return nil
	}

	if err := store.Initialize(); err != nil {
		log.Printf("Failed to initialize database tables, running degraded: %v", err)
		store.Close()
		return nil
	}

	return store
}

func waitForShutdown(cancel context.CancelFunc, server *api.Server) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down...")
	cancel()

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Server shut down gracefully")
}
