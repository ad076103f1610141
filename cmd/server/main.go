package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/typeordie/internal/api"
	"github.com/dgallion1/typeordie/internal/config"
	"github.com/dgallion1/typeordie/internal/library"
	"github.com/dgallion1/typeordie/internal/round"
	"github.com/dgallion1/typeordie/internal/source"
)

func main() {
	boot := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		boot.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := cfg.Log.NewLogger(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the library.
	paths, err := library.Discover(cfg.Library.SourcesDir)
	if err != nil {
		log.Error("discover sources", "dir", cfg.Library.SourcesDir, "error", err)
		os.Exit(1)
	}
	var libOpts []library.Option
	if cfg.Library.Seed != 0 {
		libOpts = append(libOpts, library.WithSeed(cfg.Library.Seed))
	}
	lib, err := library.LoadFiles(ctx, paths, log, library.LoadConfig{
		Concurrency: cfg.Library.LoadConcurrency,
		Source:      source.Options{PDFFallback: cfg.Library.PDFFallbackPdftotext},
	}, libOpts...)
	if err != nil {
		log.Error("load library", "dir", cfg.Library.SourcesDir, "error", err)
		os.Exit(1)
	}
	stats := lib.Stats()
	log.Info("library loaded", "books", stats.Books, "poems", stats.Poems, "lines", stats.Lines)

	// Start the round manager.
	rounds := round.NewManager(lib, round.Options{
		MaxChars:        cfg.Round.MaxChars,
		MaxCharsPerLine: cfg.Round.MaxCharsPerLine,
		RoundTimeout:    cfg.Round.Timeout,
		WrongKeyPenalty: cfg.Round.WrongKeyPenalty,
		NextRoundDelay:  cfg.Round.NextRoundDelay,
		TickInterval:    cfg.Round.TickInterval,
	}, log)
	rounds.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(lib, rounds, log, *cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		rounds.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting typeordie", "port", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
