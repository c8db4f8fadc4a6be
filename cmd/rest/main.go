package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbro-be/internal/bootstrap"
	"gymbro-be/internal/config"
	"gymbro-be/internal/server"
	"gymbro-be/internal/tracer"
	"gymbro-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracer is a no-op unless OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer(cfg.Trace, cfg.App.Environment)

	// 2. Initialize Database
	var gormDB *gorm.DB
	if opts := cfg.DatabaseOptions(); opts != nil {
		db, err := database.Open(*opts)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	// 4. Background consumer stops with gctx
	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(gctx)
	})

	// Feed hub closes open websocket sessions on shutdown
	g.Go(func() error {
		container.FeedHub.Run(gctx)
		return nil
	})

	// 5. HTTP server
	g.Go(srv.Run)

	// 6. Graceful shutdown on signal or first failure
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracer(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] %v", err)
	}
	log.Println("Server stopped")
}
