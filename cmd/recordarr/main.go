package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/recordarr/recordarr/internal/api"
	"github.com/recordarr/recordarr/internal/config"
	"github.com/recordarr/recordarr/internal/controllers"
	"github.com/recordarr/recordarr/internal/models"
	"github.com/recordarr/recordarr/internal/scheduler"
	"github.com/recordarr/recordarr/internal/services/plex"
	"github.com/recordarr/recordarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Recordarr")

	// 3. Initialize history database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize Plex client
	plexClient, err := plex.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Plex client: %w", err)
	}
	logger.Info("Plex client initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Resolve target libraries; no valid mapping means nothing useful can run
	libraryCtrl := controllers.NewLibraryController(plexClient, logger)
	libraries, err := libraryCtrl.Resolve(ctx, cfg.TVLibraryID, cfg.FilmLibraryID)
	if err != nil {
		return fmt.Errorf("failed to resolve libraries: %w", err)
	}
	logger.WithField("tv", libraries.TV).WithField("film", libraries.Film).Info("Libraries resolved")

	// 6. Initialize controllers
	scanCtrl := controllers.NewScanController(plexClient, cfg.Channels, logger)
	recordCtrl := controllers.NewRecordController(plexClient, db, libraries, logger)
	logger.Info("Controllers initialized")

	// 7. Start the recording loop
	loop := scheduler.NewLoop(scanCtrl, recordCtrl, logger)
	loopErrChan := make(chan error, 1)
	go func() {
		loopErrChan <- loop.Run(ctx)
	}()

	// 8. Start maintenance jobs
	maintenance := scheduler.NewMaintenance(db, cfg.HistoryRetentionDays, logger)
	if err := maintenance.Start(); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	defer maintenance.Stop()

	// 9. Initialize HTTP server
	server := api.NewServer(cfg, db, loop, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Recordarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case err := <-loopErrChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("recording loop error: %w", err)
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Recordarr stopped")
	return nil
}
