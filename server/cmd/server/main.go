package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/server/core"
	"github.com/automoto/shipduel/shared/protocol"
	"golang.org/x/sync/errgroup"
)

func main() {
	settings, err := config.LoadServerSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	flag.UintVar(&settings.Port, "port", settings.Port, "Server port")
	flag.StringVar(&settings.Name, "name", settings.Name, "Server display name")
	flag.DurationVar(&settings.StartDelay, "start-delay", settings.StartDelay, "Countdown between the last join and frame 1")
	flag.StringVar(&settings.DebugDBPath, "debug-db", settings.DebugDBPath, "SQLite file recording inputs and validations (empty = off)")
	holdLimit := flag.Uint("hold-limit", uint(settings.HoldLimit), "Frames a missing input is held before falling back to none (0 = forever)")
	flag.Parse()
	settings.HoldLimit = uint32(*holdLimit)

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	server, err := core.NewServer(settings)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx, settings.Port)
	})
	g.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				log.Printf("[server] %d clients connected", server.PlayerCount())
			}
		}
	})

	log.Printf("Starting shipduel server %q on port %d (start delay %s, hold limit %d)",
		settings.Name, settings.Port, settings.StartDelay, settings.HoldLimit)
	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
